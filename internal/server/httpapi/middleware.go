package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// authRequired validates the Bearer access token and stores the user id in
// the gin context. An expired token gets a distinguishable error body so
// the client can refresh and retry transparently.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrNotAuthenticated.Error()})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, auth.TokenTypeAccess, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrTokenExpired.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrNotAuthenticated.Error()})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// userID returns the authenticated user id placed by authRequired.
func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
