package middleware

import (
	"net/http"
	"time"

	"skyhunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const profileKey = "profile_id"

type ProfileConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Profile assigns every visitor a stable profile id cookie. The id scopes all
// stored keys, standing in for a browser profile's localStorage.
func Profile(cfg ProfileConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id uuid.UUID

		raw, err := c.Cookie(cfg.CookieName)
		if err == nil {
			id, err = uuid.Parse(raw)
		}
		if err != nil {
			id = uuid.New()
			logger.Logger().Debug("issued new profile", zap.String("profile_id", id.String()))
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id.String(), int(cfg.MaxAge.Seconds()), "/", "", cfg.Secure, true)

		c.Set(profileKey, id)
		c.Next()
	}
}

func ProfileID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(profileKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
