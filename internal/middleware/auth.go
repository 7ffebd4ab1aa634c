package middleware

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/token"
	"github.com/gin-gonic/gin"
)

type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth answers 401 when no token is presented and 403 when the token
// does not verify. On success the claims are stored in the gin context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = strings.TrimSpace(parts[1])
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		claims, err := m.verifier.Verify(tokenString)
		if err != nil {
			if errors.Is(err, apperror.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperror.ErrUnauthorized.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperror.ErrInvalidToken.Error()})
			return
		}

		response.SetClaims(c, claims)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := response.GetClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied for role " + claims.Role})
	}
}
