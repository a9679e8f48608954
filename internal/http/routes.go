package http

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthService is implemented by *service.AuthService.
type AuthService interface {
	handlers.AuthService
	middleware.Authenticator
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Auth    AuthService
	Tasks   handlers.TaskService
	Audit   handlers.AuditService
	Health  *handlers.HealthHandler
	Limiter *middleware.RateLimiter
}

// NewRouter builds the engine with the global middleware chain and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ClientInfo(),
		middleware.Recovery(),
		middleware.Metrics(),
		cors.New(corsConfig(d.Config.CORSAllowOrigins)),
	)
	RegisterRoutes(r, d)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// "*" with credentials has to echo the caller's origin
	if slices.Contains(origins, "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	h := handlers.NewHandler(d.Auth, d.Tasks, d.Audit)
	jwt := middleware.JWT(d.Auth)

	// Health checks and metrics (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerFrontend(r, cfg.StaticDir, cfg.TemplatesDir)

	api := r.Group("/api")
	api.Use(d.Limiter.Limit("api", cfg.APIRateLimit, cfg.APIRateWindow, middleware.ByClientIP))

	authRL := d.Limiter.Limit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow, middleware.ByClientIP)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authRL, h.Register)
		auth.POST("/login", authRL, h.Login)
		auth.GET("/me", jwt, h.Me)
		auth.DELETE("/me", jwt, h.DeleteMe)
		auth.GET("/me/activity", jwt, h.Activity)
	}

	tasks := api.Group("/tasks")
	tasks.Use(jwt)
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("", h.ListTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}

// registerFrontend serves the static assets and the index page when the
// directories exist.
func registerFrontend(r *gin.Engine, staticDir, templatesDir string) {
	if fi, err := os.Stat(staticDir); err == nil && fi.IsDir() {
		r.Static("/static", staticDir)
	}
	index := filepath.Join(templatesDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		r.GET("/", func(c *gin.Context) {
			c.File(index)
		})
	}
}
