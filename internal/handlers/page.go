package handlers

import (
	"net/http"

	"github.com/djessicatony/my-portfolio/internal/models"

	"github.com/gin-gonic/gin"
)

const colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

type pageData struct {
	Profile  models.Profile
	Theme    models.ThemePreference
	Resolved models.Theme
	Clock    models.ClockReading

	// ThemeCookie names the cookie the head script reads before first paint.
	ThemeCookie string
}

// index renders the landing page with the visitor's theme and a fresh
// clock reading. The live channel takes over after load.
func (h *Handler) index(c *gin.Context) {
	ctx := c.Request.Context()
	id := visitorID(c)

	pref, err := h.services.Theme.Get(ctx, id)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("page_theme_load_failed", "err", err, "visitor", id)
		}
		c.String(http.StatusInternalServerError, "failed to load page")
		return
	}

	c.Header("Accept-CH", colorSchemeHint)
	c.Header("Vary", colorSchemeHint)
	c.HTML(http.StatusOK, "index.html", pageData{
		Profile:  h.page.Profile,
		Theme:    pref,
		Resolved: h.services.Theme.Resolve(pref.Theme, c.GetHeader(colorSchemeHint)),
		Clock:    h.services.Clock.Now(),

		ThemeCookie: themeCookie,
	})
}

// @Summary      Current local time
// @Description  Wall-clock time at the fixed +5h offset, formatted hour:minute
// @Tags         clock
// @Produce      json
// @Success      200  {object}  models.ClockReading
// @Router       /api/v1/clock [get]
func (h *Handler) getClock(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Clock.Now())
}
