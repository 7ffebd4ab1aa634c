package response

import (
	"errors"
	"net/http"

	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const claimsKey = "claims"

func SetClaims(c *gin.Context, claims *token.Claims) {
	c.Set(claimsKey, claims)
	c.Set("user_id", claims.Subject)
	c.Set("user_role", claims.Role)
	c.Set("user_email", claims.Email)
}

func GetClaims(c *gin.Context) (*token.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok && claims != nil
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	claims, ok := GetClaims(c)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidToken
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		// RequestLogger puts the request logger on the context; without it this is a no-op.
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("internal error")

		body := gin.H{"error": apperror.ErrInternal.Error()}
		if gin.IsDebugging() {
			body["details"] = err.Error()
		}
		c.JSON(code, body)
		return
	}

	c.JSON(code, gin.H{"error": publicMessage(err)})
}

func publicMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}
