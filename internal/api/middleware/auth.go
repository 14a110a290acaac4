package middleware

import (
	"net/http"

	"boardsite/internal/auth"
	"boardsite/internal/models"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	guard      *auth.Guard
	cookieName string
}

func NewAuthMiddleware(guard *auth.Guard, cookieName string) *AuthMiddleware {
	if cookieName == "" {
		cookieName = "token"
	}
	return &AuthMiddleware{
		guard:      guard,
		cookieName: cookieName,
	}
}

// AdminRequired rejects requests without a valid session. Every account is an
// administrator, so a valid session is sufficient.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c, m.cookieName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "authentication required"})
			return
		}

		result := m.guard.Verify(c.Request.Context(), token)
		if !result.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid or expired session"})
			return
		}

		c.Set(auth.ContextKeyAccount, result.Account)
		c.Next()
	}
}
