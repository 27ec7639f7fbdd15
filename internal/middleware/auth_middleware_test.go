package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homecare_client/internal/transport"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT("middleware-test-secret", time.Hour)
	engine := gin.New()
	engine.GET("/", handlers...)
	return engine
}

func serve(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_SetsSessionAndUpstreamToken(t *testing.T) {
	var gotAccount, gotRole int64
	var gotUpstream string
	engine := newEngine(AuthMiddleware(), func(c *gin.Context) {
		gotAccount = AccountID(c)
		gotRole = RoleID(c)
		gotUpstream = transport.TokenFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	token, err := utils.GenerateAccessToken(42, 4, "Khách", "upstream-abc", false)
	require.NoError(t, err)

	w := serve(engine, "Bearer "+token)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(42), gotAccount)
	assert.Equal(t, int64(4), gotRole)
	assert.Equal(t, "upstream-abc", gotUpstream)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	engine := newEngine(AuthMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusUnauthorized, serve(engine, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, "Bearer not.a.jwt").Code)
}

func TestRoleAuthMiddleware(t *testing.T) {
	engine := newEngine(AuthMiddleware(), RoleAuthMiddleware(1, 3), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	admin, err := utils.GenerateAccessToken(1, 1, "", "", false)
	require.NoError(t, err)
	customer, err := utils.GenerateAccessToken(2, 4, "", "", false)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, serve(engine, "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, "Bearer "+customer).Code)
}

func TestRequireOnline_RefusesOfflineSessions(t *testing.T) {
	reached := 0
	engine := newEngine(AuthMiddleware(), RequireOnline(), func(c *gin.Context) {
		reached++
		c.Status(http.StatusNoContent)
	})
	online, err := utils.GenerateAccessToken(42, 4, "", "upstream-abc", false)
	require.NoError(t, err)
	offline, err := utils.GenerateAccessToken(42, 4, "", "", true)
	require.NoError(t, err)

	w := serve(engine, "Bearer "+offline)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrCodeUpstreamUnavailable)
	assert.Zero(t, reached)

	assert.Equal(t, http.StatusNoContent, serve(engine, "Bearer "+online).Code)
	assert.Equal(t, 1, reached)
}
