package middleware

import (
	"net/http"

	"skyhunt/internal/service"
	"skyhunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

const LoginPath = "/"

// Authorization gates routes on the profile's isLoggedIn flag. It is a
// demo gate: anyone able to set the flag passes.
type Authorization struct {
	sessions service.SessionServiceI
}

func NewAuthorization(sessions service.SessionServiceI) *Authorization {
	return &Authorization{
		sessions: sessions,
	}
}

func (a *Authorization) loggedIn(c *gin.Context) bool {
	log := logger.Logger()

	profileID, ok := ProfileID(c)
	if !ok {
		log.Error("profile id not found in context")
		return false
	}

	loggedIn, err := a.sessions.IsLoggedIn(c.Request.Context(), profileID)
	if err != nil {
		log.Error("failed to read session flag",
			zap.String("profile_id", profileID.String()),
			zap.Error(err))
		return false
	}

	return loggedIn
}

// RequirePage redirects visitors without the session flag to the login screen.
func (a *Authorization) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.loggedIn(c) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Authorization) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.loggedIn(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}
