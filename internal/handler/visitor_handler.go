package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	visitorCookieName   = "hh_visitor"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

// TrackVisitor records one page view per request, identifying visitors by
// a long-lived cookie. Recording failures are logged, never surfaced.
func (a *API) TrackVisitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorID, err := c.Cookie(visitorCookieName)
		if err != nil || visitorID == "" {
			visitorID = uuid.New().String()
			c.SetCookie(visitorCookieName, visitorID, visitorCookieMaxAge, "/", "", false, true)
		}

		if err := a.visitors.Record(visitorID, time.Now()); err != nil {
			log.Warn().Err(err).Msg("failed to record visit")
		}

		c.Next()
	}
}

// GetVisitorStats returns all-time visitor counters.
func (a *API) GetVisitorStats(c *gin.Context) {
	stats, err := a.visitors.Stats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load visitor stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
