package handlers

import (
	"net/http"
	"time"

	_ "blog_backend/internal/docs"
	"blog_backend/internal/logger"
	"blog_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	streamPath = "/api/posts/stream"
	logoutPath = "/api/auth/logout"
)

// Options carries the HTTP-level settings taken from configuration.
type Options struct {
	CookieSecure   bool
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log
// discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{services: services, log: log, opts: opts}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.accessLog, h.requestTimeout, h.identify)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	api := router.Group("/api")
	h.registerAuthRoutes(api)
	h.registerPostRoutes(api)

	return router
}

// Router returns the engine wrapped in CORS handling.
func (h *Handler) Router() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   h.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{lastPageHeader, requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(h.InitRoutes())
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/check", h.requireAuthenticated, h.check)
		auth.POST("/logout", h.logout)
	}
}

func (h *Handler) registerPostRoutes(api *gin.RouterGroup) {
	posts := api.Group("/posts")
	{
		posts.GET("", h.listPosts)
		posts.POST("", h.requireAuthenticated, h.writePost)
		posts.GET("/stream", h.streamPosts)
		posts.GET("/:id", h.loadPost, h.readPost)
		posts.PATCH("/:id", h.requireAuthenticated, h.loadPost, h.requireOwnership, h.updatePost)
		posts.DELETE("/:id", h.requireAuthenticated, h.loadPost, h.requireOwnership, h.removePost)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
