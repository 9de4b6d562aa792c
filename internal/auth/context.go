package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetRole returns the role carried by the access token or empty string.
// The role is only as fresh as the token; admin-only routes re-check it against storage.
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}
