package auth

import (
	"net/http"
	"strings"

	"go-convo/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests without a valid token and stores the user id on the request context.
// The token comes from the Authorization header or, for websocket handshakes, the token query parameter.
func RequireAuth(a *Authenticator, log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "RequireAuth")
	return func(c *gin.Context) {
		userID, err := a.Authenticate(tokenFrom(c))
		if err != nil {
			log.Debug("rejected request", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthenticated", "error": "missing or invalid token"})
			return
		}
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Query("token")
}
