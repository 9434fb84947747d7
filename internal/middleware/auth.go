// Package middleware provides the gin middleware chain: token
// validation, request logging, and request metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/auth"
)

// userIDKey is the gin context key for the authenticated user ID.
const userIDKey = "auth_user_id"

// emailKey is the gin context key for the authenticated user's email.
const emailKey = "auth_email"

// GetUserID extracts the authenticated user ID from the request context.
// Returns empty string if not set.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Value(userIDKey).(string)
	return userID
}

// GetEmail extracts the authenticated user's email from the request context.
func GetEmail(c *gin.Context) string {
	email, _ := c.Value(emailKey).(string)
	return email
}

// RequireAuth validates the Authorization bearer token and injects the
// user ID and email into the request context. Requests without a valid
// token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(emailKey, claims.Email)
		c.Next()
	}
}
