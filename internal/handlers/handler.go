package handlers

import (
	"context"
	"net/http"

	"github.com/djessicatony/my-portfolio/internal/logger"
	"github.com/djessicatony/my-portfolio/internal/models"
	"github.com/djessicatony/my-portfolio/internal/service"
	"github.com/djessicatony/my-portfolio/web"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// PageOptions holds what the page view needs besides the services.
type PageOptions struct {
	Profile           models.Profile
	ThemeCookieMaxAge int // seconds
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	page     PageOptions

	// baseCtx is canceled by Close and bounds every live channel.
	baseCtx context.Context
	stop    context.CancelFunc
	live    *liveConns
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, log *logger.Logger, page PageOptions) *Handler {
	if page.ThemeCookieMaxAge <= 0 {
		page.ThemeCookieMaxAge = defaultCookieMaxAge
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Handler{services: services, log: log, page: page, baseCtx: ctx, stop: stop, live: &liveConns{}}
}

// Close ends every open live channel, which unmounts its clock widget and
// drops its theme subscription, and waits until all of them have returned.
// New live channels are refused afterwards. Safe to call more than once.
func (h *Handler) Close() {
	h.stop()
	h.live.closeAndWait()
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := web.Templates()
	if err != nil {
		panic(err) // embedded templates are fixed at build time
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(web.Static()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	page := router.Group("/", h.visitorMiddleware)
	{
		page.GET("/", h.index)
		page.POST("/theme", h.selectTheme)
		page.GET("/ws", h.wsConnect)
	}

	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.visitorMiddleware)
	{
		theme := api.Group("/theme")
		{
			theme.GET("", h.getTheme)
			theme.POST("", h.setTheme)
			theme.GET("/history", h.getThemeHistory)
		}
		api.GET("/clock", h.getClock)
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
