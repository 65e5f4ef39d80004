package middleware

import (
	"net/http"
	"strings"

	"backoffice/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	userNameKey = "userName"
	userRoleKey = "userRole"
)

// Auth requires a valid bearer token and stores the user on the context.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := auth.ParseToken(secret, strings.TrimSpace(raw))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(userNameKey, claims.Username)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// GetActor is the username of the authenticated caller, empty when anonymous.
func GetActor(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userNameKey)
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}
