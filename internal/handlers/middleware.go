package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorCookie = "visitor_id"
	themeCookie   = "theme"
	visitorCtxKey = "visitorId"

	defaultCookieMaxAge = 365 * 24 * 60 * 60
)

// visitorMiddleware identifies the browser session by a visitor_id cookie,
// issuing a fresh UUID when the cookie is missing or malformed.
func (h *Handler) visitorMiddleware(c *gin.Context) {
	id, err := c.Cookie(visitorCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(visitorCookie, id, h.page.ThemeCookieMaxAge, "/", "", false, true)
		if h.log != nil {
			h.log.Debugw("visitor_issued", "visitor", id)
		}
	}
	c.Set(visitorCtxKey, id)
	c.Next()
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorCtxKey)
}
