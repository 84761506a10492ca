package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/utils"
)

// SessionCookie is the http-only cookie carrying the session token.
const SessionCookie = "token"

// AuthMiddleware creates a middleware for JWT authentication. The token
// is read from the session cookie, with an Authorization Bearer header
// as fallback for non-browser clients.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				utils.Unauthorized(c, "Authentication required")
				c.Abort()
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				utils.Unauthorized(c, "Invalid authorization header format")
				c.Abort()
				return
			}
			tokenString = parts[1]
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}

		// Set patient identity in context for downstream handlers
		c.Set("patientID", claims.ID)
		c.Set("patientName", claims.Name)
		c.Set("patientEmail", claims.Email)

		c.Next()
	}
}

// GetPatientIDFromContext returns the authenticated patient id.
func GetPatientIDFromContext(c *gin.Context) (string, bool) {
	patientID, exists := c.Get("patientID")
	if !exists {
		return "", false
	}
	idStr, ok := patientID.(string)
	return idStr, ok
}
