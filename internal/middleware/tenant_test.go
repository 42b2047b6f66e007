package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"travelops/internal/model"
	"travelops/internal/tenant"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompanyStore struct {
	active map[string]*model.Company
}

func (s *stubCompanyStore) FindActiveBySubdomain(_ context.Context, subdomain string) (*model.Company, error) {
	return s.active[subdomain], nil
}

func (s *stubCompanyStore) FindActiveByDomain(_ context.Context, candidates []string) (*model.Company, error) {
	return nil, nil
}

func newTenantTestServer() *echo.Echo {
	acme := &model.Company{ID: 1, Name: "Acme", Subdomain: "acme", Status: model.CompanyStatusActive}
	resolver := tenant.NewResolver(&stubCompanyStore{active: map[string]*model.Company{"acme": acme}}, "c")

	e := echo.New()
	e.Use(IdentifyTenant(resolver))
	e.Any("/*", func(c echo.Context) error {
		rc := tenant.FromEcho(c)
		if rc.Company == nil {
			return c.JSON(http.StatusOK, echo.Map{"company": nil})
		}
		return c.JSON(http.StatusOK, echo.Map{"company": rc.Company.Subdomain})
	})
	return e
}

func TestIdentifyTenant_ResolvesSubdomainHost(t *testing.T) {
	e := newTenantTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Host = "acme.travelops.com"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"company":"acme"`)
}

func TestIdentifyTenant_RejectsUnknownSubdomain(t *testing.T) {
	e := newTenantTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Host = "ghost.travelops.com"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Company not found or inactive")
}

func TestIdentifyTenant_HeaderHintOnLocalhost(t *testing.T) {
	e := newTenantTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Host = "localhost:8080"
	req.Header.Set("X-Subdomain", "acme")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"company":"acme"`)
}

func TestIdentifyTenant_QueryHintOnLocalhost(t *testing.T) {
	e := newTenantTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/leads?subdomain=acme", nil)
	req.Host = "localhost:8080"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"company":"acme"`)
}

func TestIdentifyTenant_SkipsAllowListedPaths(t *testing.T) {
	e := newTenantTestServer()

	// An unknown host must not block paths on the allow-list.
	for _, path := range []string{"/auth/login", "/health", "/metrics", "/api/super-admin/features"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Host = "ghost.travelops.com"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"company":null`, path)
	}
}

func TestSkipTenantResolution(t *testing.T) {
	assert.True(t, skipTenantResolution("/auth/login"))
	assert.True(t, skipTenantResolution("/health"))
	assert.True(t, skipTenantResolution("/api/super-admin/companies/1"))
	assert.False(t, skipTenantResolution("/api/leads"))
}
