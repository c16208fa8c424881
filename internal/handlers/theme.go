package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/djessicatony/my-portfolio/internal/models"
	"github.com/djessicatony/my-portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLoadTheme       = "failed to load theme"
	errSaveTheme       = "failed to save theme"
	errInvalidBodyPref = "invalid body: "
)

type themeRequest struct {
	Theme string `json:"theme" form:"theme" binding:"required"`
}

// SetThemeRequest documents the setTheme payload.
type SetThemeRequest struct {
	// One of light, dark, system
	Theme string `json:"theme" example:"dark"`
}

// @Summary      Get theme
// @Tags         theme
// @Produce      json
// @Success      200  {object}  models.ThemePreference
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/theme [get]
func (h *Handler) getTheme(c *gin.Context) {
	pref, err := h.services.Theme.Get(c.Request.Context(), visitorID(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadTheme, "theme_get_failed", err, "visitor", visitorID(c))
		return
	}
	c.JSON(http.StatusOK, pref)
}

// @Summary      Set theme
// @Tags         theme
// @Accept       json
// @Produce      json
// @Param        body  body      SetThemeRequest  true  "Theme payload"
// @Success      200   {object}  models.ThemePreference
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/theme [post]
func (h *Handler) setTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	pref, ok := h.applyTheme(c, req.Theme)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pref)
}

// selectTheme is the HTMX form endpoint behind the toggle menu. It answers
// with the re-rendered toggle and an HX-Trigger so the page swaps its theme.
func (h *Handler) selectTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	pref, ok := h.applyTheme(c, req.Theme)
	if !ok {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	// read by the head script in index.html, hence not HttpOnly
	c.SetCookie(themeCookie, pref.Theme.String(), h.page.ThemeCookieMaxAge, "/", "", false, false)

	trigger, _ := json.Marshal(map[string]any{
		"themeChanged": map[string]string{"theme": pref.Theme.String()},
	})
	c.Header("HX-Trigger", string(trigger))
	c.HTML(http.StatusOK, "toggle", pref)
}

// applyTheme validates and stores raw. On failure it writes the error
// response and returns false.
func (h *Handler) applyTheme(c *gin.Context, raw string) (models.ThemePreference, bool) {
	id := visitorID(c)
	t, err := models.ParseTheme(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.ThemePreference{}, false
	}

	pref, err := h.services.Theme.Set(c.Request.Context(), id, t)
	if err != nil {
		if errors.Is(err, models.ErrUnknownTheme) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return models.ThemePreference{}, false
		}
		if !errors.Is(err, service.ErrHistoryAppend) {
			h.logAndJSONError(c, http.StatusInternalServerError, errSaveTheme, "theme_set_failed", err, "visitor", id)
			return models.ThemePreference{}, false
		}
		// stored, only the history entry failed
		if h.log != nil {
			h.log.Warnw("theme_history_append_failed", "err", err, "visitor", id)
		}
	}
	if h.log != nil {
		h.log.Infow("theme_selected", "visitor", id, "theme", pref.Theme)
	}
	return pref, true
}
