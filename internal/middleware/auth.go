package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pigfarm-manager/internal/auth"
	"pigfarm-manager/internal/models"
)

func RequireAuth() gin.HandlerFunc {
	return RequireRole()
}

// RequireRole пропускает запрос, только если роль сессии входит в roles.
// Без аргументов достаточно любой активной сессии.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := auth.Require(CurrentSession(c), roles...)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, auth.ErrNoSession):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "sign in required"})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "access denied"})
		}
	}
}
