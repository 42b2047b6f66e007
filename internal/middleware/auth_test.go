package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"travelops/internal/repository"
	"travelops/internal/session"
	"travelops/pkg/config"
	"travelops/pkg/jwtutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServer(t *testing.T) (*echo.Echo, *miniredis.Miniredis) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewStore(rdb, time.Hour)

	e := echo.New()
	e.Use(AuthMiddleware(repository.NewCompanyRepository(nil), sessions))
	e.GET("/protected", func(c echo.Context) error {
		p := PrincipalFromEcho(c)
		require.NotNil(t, p)
		return c.JSON(http.StatusOK, echo.Map{"user_id": p.UserID})
	})
	return e, mr
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	e, _ := setupAuthServer(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	e, _ := setupAuthServer(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_CompanylessTokenPassesThrough(t *testing.T) {
	e, _ := setupAuthServer(t)

	token, err := jwtutil.GenerateToken("root@travelops.com", 1, nil, true, "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":1`)
}

func TestAuthMiddleware_RevokedSessionRejected(t *testing.T) {
	e, mr := setupAuthServer(t)

	companyID := uint(7)
	token, err := jwtutil.GenerateToken("agent@acme.com", 2, &companyID, false, "Agent")
	require.NoError(t, err)

	// Mark set after the token was issued; the session is dead.
	mark := time.Now().Add(time.Minute).Unix()
	require.NoError(t, mr.Set("sessions:revoked:company:7", strconv.FormatInt(mark, 10)))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired")
}

func TestAuthMiddleware_RevocationStoreDownRejects(t *testing.T) {
	// With the revocation store unreachable a company-bound token cannot be
	// verified against the mark; the request must not proceed.
	e, mr := setupAuthServer(t)
	mr.Close()

	companyID := uint(7)
	token, err := jwtutil.GenerateToken("agent@acme.com", 2, &companyID, false, "Agent")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
