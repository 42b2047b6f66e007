package middleware

import (
	"net/http"

	"travelops/internal/feature"
	"travelops/internal/tenant"
	"travelops/pkg/logger"
	"travelops/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireFeature guards an endpoint behind a plan feature. Denials are an
// expected outcome: cheap, side-effect free, and carrying the feature key so
// the frontend can render an upgrade prompt.
func RequireFeature(gate *feature.Gate, key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc := tenant.FromEcho(c)

			decision, err := gate.Check(c.Request().Context(), rc, key)
			if err != nil {
				logger.FromContext(c).Error("Feature gate check failed",
					zap.String("feature", key), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}

			if !decision.Allowed {
				prometheus.RecordFeatureCheck(key, "deny")
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "This feature is not available in your subscription plan. Please upgrade to access this feature.",
					"feature": key,
					"reason":  decision.Reason,
				})
			}

			prometheus.RecordFeatureCheck(key, "allow")
			c.Set("feature_decision", decision)
			return next(c)
		}
	}
}
