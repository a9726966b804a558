package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "dispocam/internal/pkg/jwt"
	"dispocam/internal/pkg/response"
)

// GuestAuth validates the guest-session token issued by the join flow and
// makes the guest identity available to capture and gallery handlers.
func GuestAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("owner_id", claims.OwnerID)
		c.Set("owner_name", claims.OwnerName)
		c.Set("camera_id", claims.CameraID)

		c.Next()
	}
}

// GuestAuthOptional picks up the guest identity when a valid token is sent
// but lets anonymous requests through. Gallery routes use it: anyone can view
// a revealed gallery, only a joined session can ask for hidden photos.
func GuestAuthOptional(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if claims, err := jwt.ValidateToken(tokenStr); err == nil {
				c.Set("owner_id", claims.OwnerID)
				c.Set("owner_name", claims.OwnerName)
				c.Set("camera_id", claims.CameraID)
			}
		}
		c.Next()
	}
}
