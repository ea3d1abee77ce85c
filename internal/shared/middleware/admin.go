package middleware

import (
	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/shared/response"
)

// StaffMiddleware allows only staff accounts through. Must run after
// AuthMiddleware, which sets the staff flag from the token claims.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsStaff) {
			response.Forbidden(c, "staff access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
