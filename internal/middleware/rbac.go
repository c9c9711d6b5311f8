package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	appErrors "github.com/shivamgupta1990/hostel-grievance-api/pkg/errors"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/response"
)

// RequireRole restricts a route to principals with the given role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok || claims.Role != role {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "access denied"))
			c.Abort()
			return
		}

		c.Next()
	}
}
