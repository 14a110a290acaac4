package auth

import (
	"strings"

	"boardsite/internal/models"

	"github.com/gin-gonic/gin"
)

// ContextKeyAccount is the gin context key holding the authenticated account
const ContextKeyAccount = "account"

// GetAccountFromContext retrieves the authenticated account from the gin context
func GetAccountFromContext(c *gin.Context) *models.Account {
	account, exists := c.Get(ContextKeyAccount)
	if !exists {
		return nil
	}
	if a, ok := account.(*models.Account); ok {
		return a
	}
	return nil
}

// TokenFromRequest returns the session token from the named cookie, falling
// back to an "Authorization: Bearer" header
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
