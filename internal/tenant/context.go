package tenant

import (
	"travelops/internal/model"

	"github.com/labstack/echo/v4"
)

// RequestContext carries the resolved company and the authenticated principal
// for one request. It is threaded explicitly into the scope enforcer and the
// feature gate; nothing reads tenant state from globals.
type RequestContext struct {
	Company   *model.Company
	Principal *model.Principal
}

// HasTenant reports whether a company was resolved for this request.
func (rc RequestContext) HasTenant() bool {
	return rc.Company != nil
}

const contextKey = "tenant_context"

// WithEcho stores the request context on the echo context after resolution.
func WithEcho(c echo.Context, rc RequestContext) {
	c.Set(contextKey, rc)
}

// FromEcho retrieves the request context set by the tenant middleware. The
// zero value (no company, no principal) is returned when resolution never ran,
// which downstream consumers treat as fail-closed.
func FromEcho(c echo.Context) RequestContext {
	if rc, ok := c.Get(contextKey).(RequestContext); ok {
		return rc
	}
	rc := RequestContext{}
	if p, ok := c.Get("principal").(*model.Principal); ok {
		rc.Principal = p
	}
	return rc
}
