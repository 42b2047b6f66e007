package middleware

import (
	"net/http"
	"strings"

	"travelops/internal/model"
	"travelops/internal/repository"
	"travelops/internal/session"
	"travelops/pkg/jwtutil"
	"travelops/pkg/logger"
	"travelops/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT from the Authorization header, rejects
// tokens revoked by administrative changes, and attaches the principal (role
// tier resolved once, here) to the request.
func AuthMiddleware(companies *repository.CompanyRepository, sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Error("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Error("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := jwtutil.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Tokens issued before a company-wide revocation mark are dead:
			// plan or status changes force a fresh login.
			if claims.CompanyID != nil && claims.IssuedAt != nil {
				revokedAt, revoked, err := sessions.RevokedSince(c.Request().Context(), *claims.CompanyID)
				if err != nil {
					// If the revocation store is unreachable we cannot tell a
					// live session from a revoked one. Reject rather than let a
					// possibly revoked token through.
					log.Error("Failed to check session revocation", zap.Error(err))
					prometheus.RecordAuthError("revocation_check_failed")
					return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service temporarily unavailable"})
				}
				if revoked && claims.IssuedAt.Time.Before(revokedAt) {
					log.Warn("Rejected revoked session",
						zap.Uint("user_id", claims.UserID),
						zap.Uint("company_id", *claims.CompanyID))
					prometheus.RecordAuthError("session_revoked")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired, please login again"})
				}
			}

			principal := &model.Principal{
				UserID:       claims.UserID,
				Email:        claims.Email,
				CompanyID:    claims.CompanyID,
				IsSuperAdmin: claims.IsSuperAdmin,
				Tier:         model.TierForRole(claims.IsSuperAdmin, claims.Role),
			}

			// Load the principal's own company so the tenant resolver can use
			// it as the bare-domain fallback.
			if claims.CompanyID != nil {
				company, err := companies.FindByID(c.Request().Context(), *claims.CompanyID)
				if err != nil {
					log.Error("Failed to load principal company", zap.Error(err))
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
				}
				principal.Company = company
			}

			c.Set("principal", principal)
			log.Debug("Request authenticated",
				zap.Uint("user_id", principal.UserID),
				zap.String("tier", principal.Tier.String()))

			return next(c)
		}
	}
}

// PrincipalFromEcho returns the principal attached by AuthMiddleware, or nil.
func PrincipalFromEcho(c echo.Context) *model.Principal {
	if p, ok := c.Get("principal").(*model.Principal); ok {
		return p
	}
	return nil
}

// RequireSuperAdmin guards the management surface.
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := PrincipalFromEcho(c)
		if p == nil || !p.IsSuperAdmin {
			logger.FromContext(c).Warn("Non-super-admin hit management endpoint")
			prometheus.RecordAuthError("super_admin_required")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "super admin access required"})
		}
		return next(c)
	}
}
