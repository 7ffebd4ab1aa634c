package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		claims, _ := response.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.Subject, "role": claims.Role, "user_id": c.GetString("user_id")})
	})
	r.GET("/teachers-only", m.RequireAuth(), m.RequireRole(token.RoleTeacher), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour, "")
	r := newRouter(NewAuthMiddleware(tokens))

	studentToken, err := tokens.Issue("stu-1", token.RoleStudent, "s@x.com")
	require.NoError(t, err)

	t.Run("missing token is 401", func(t *testing.T) {
		w := do(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"authentication token required"}`, w.Body.String())
	})

	t.Run("garbage token is 403", func(t *testing.T) {
		w := do(r, "/me", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())
	})

	t.Run("token signed with another secret is 403", func(t *testing.T) {
		other, err := token.NewManager("other", time.Hour, "").Issue("stu-1", token.RoleStudent, "s@x.com")
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, do(r, "/me", "Bearer "+other).Code)
	})

	t.Run("valid header token", func(t *testing.T) {
		w := do(r, "/me", "Bearer "+studentToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"stu-1","role":"student","user_id":"stu-1"}`, w.Body.String())
	})

	t.Run("query token fallback", func(t *testing.T) {
		w := do(r, "/me?token="+studentToken, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour, "")
	r := newRouter(NewAuthMiddleware(tokens))

	studentToken, err := tokens.Issue("stu-1", token.RoleStudent, "s@x.com")
	require.NoError(t, err)
	teacherToken, err := tokens.Issue("tch-1", token.RoleTeacher, "t@x.com")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(r, "/teachers-only", "Bearer "+studentToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/teachers-only", "Bearer "+teacherToken).Code)
}
