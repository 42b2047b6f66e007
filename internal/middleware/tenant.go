package middleware

import (
	"net/http"
	"strings"

	"travelops/internal/tenant"
	"travelops/pkg/logger"
	"travelops/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Paths that never carry tenant context: login has to work before any company
// is known, and the super-admin surface operates across companies.
var tenantSkipPrefixes = []string{
	"/auth/",
	"/password/",
	"/health",
	"/metrics",
	"/api/super-admin/",
}

func skipTenantResolution(path string) bool {
	for _, prefix := range tenantSkipPrefixes {
		if strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/") {
			return true
		}
	}
	return false
}

// IdentifyTenant resolves the request's company from the host (or the
// X-Subdomain development override) and publishes the request context for the
// scope enforcer and feature gate. Rejection is terminal: the handler is
// never invoked.
func IdentifyTenant(resolver *tenant.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipTenantResolution(c.Request().URL.Path) {
				tenant.WithEcho(c, tenant.RequestContext{Principal: PrincipalFromEcho(c)})
				return next(c)
			}

			log := logger.FromContext(c)
			principal := PrincipalFromEcho(c)

			hint := c.Request().Header.Get("X-Subdomain")
			if hint == "" {
				hint = c.QueryParam("subdomain")
			}

			host := c.Request().Host
			company, err := resolver.Resolve(c.Request().Context(), host, hint, principal)
			if err == tenant.ErrCompanyNotFound {
				log.Warn("Tenant resolution rejected",
					zap.String("host", host),
					zap.String("hint", hint))
				prometheus.RecordTenantResolution("rejected")
				return c.JSON(http.StatusNotFound, echo.Map{
					"success": false,
					"message": "Company not found or inactive",
				})
			}
			if err != nil {
				log.Error("Tenant resolution failed", zap.Error(err))
				prometheus.RecordTenantResolution("error")
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}

			if company != nil {
				prometheus.RecordTenantResolution("resolved")
				log.Debug("Tenant resolved",
					zap.Uint("company_id", company.ID),
					zap.String("subdomain", company.Subdomain))
			} else {
				prometheus.RecordTenantResolution("none")
			}

			tenant.WithEcho(c, tenant.RequestContext{Company: company, Principal: principal})
			return next(c)
		}
	}
}
