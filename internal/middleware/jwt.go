package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/service"
	appErrors "github.com/shivamgupta1990/hostel-grievance-api/pkg/errors"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/response"
)

// ContextUserKey is the gin context key storing the verified principal.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token. The decoded role
// must belong to the closed student/admin set; any other role value is
// rejected even when the signature verifies.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if !claims.Role.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "access denied: invalid role"))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
