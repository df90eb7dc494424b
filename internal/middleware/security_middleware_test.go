package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-pos-lite/internal/auth"
	"go-pos-lite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(issuer *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	api := r.Group("/api", AuthMiddleware(issuer))
	api.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(KeyUserID)+"|"+c.GetString(KeyUserName))
	})
	api.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	r := newRouter(issuer)

	token, err := issuer.GenerateToken(models.User{ID: "2", Name: "John Cashier", Role: models.RoleCashier})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/whoami", token).Code, "missing Bearer prefix")
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/whoami", "Bearer nope").Code)

	other, err := auth.NewIssuer("other", time.Hour).GenerateToken(models.User{ID: "2", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/whoami", "Bearer "+other).Code)

	w := get(r, "/api/whoami", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2|John Cashier", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	r := newRouter(issuer)

	cashier, err := issuer.GenerateToken(models.User{ID: "2", Role: models.RoleCashier})
	require.NoError(t, err)
	admin, err := issuer.GenerateToken(models.User{ID: "1", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/api/admin", "Bearer "+cashier).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/api/admin", "Bearer "+admin).Code)
}
