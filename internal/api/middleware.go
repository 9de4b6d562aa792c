package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/apperror"
)

// RequireAdmin ensures the authenticated user is an administrator.
// The role is read from storage, not from the token.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(identities booking.Identities) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": apperror.KindUnauthorized})
			return
		}

		identity, err := identities.Identity(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found", "kind": apperror.KindUnauthorized})
			return
		}

		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required", "kind": apperror.KindForbidden})
			return
		}

		c.Next()
	}
}
