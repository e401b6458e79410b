package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pressgen/pressgen-backend/internal/handlers"
	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/middleware"
)

type RouterConfig struct {
	Log             *logger.Logger
	AllowedOrigins  []string
	TracingEnabled  bool
	AuthMiddleware  *middleware.AuthMiddleware
	AuthHandler     *handlers.AuthHandler
	ParseHandler    *handlers.ParseHandler
	GenerateHandler *handlers.GenerateHandler
	TemplateHandler *handlers.TemplateHandler
	ArticleHandler  *handlers.ArticleHandler
	FeedbackHandler *handlers.FeedbackHandler
	AdminHandler    *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Log != nil {
		router.Use(middleware.RequestLogger(cfg.Log))
	}
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("pressgen-backend"))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)

		protected.POST("/parse", cfg.ParseHandler.Parse)
		protected.POST("/generate", cfg.GenerateHandler.Generate)
		protected.POST("/rewrite", cfg.GenerateHandler.Rewrite)

		protected.GET("/templates", cfg.TemplateHandler.List)

		protected.GET("/articles", cfg.ArticleHandler.List)
		protected.GET("/articles/:id", cfg.ArticleHandler.Get)
		protected.DELETE("/articles/:id", cfg.ArticleHandler.Delete)

		protected.POST("/feedback", cfg.FeedbackHandler.Submit)
	}

	// Admin
	admin := protected.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		admin.GET("/templates", cfg.AdminHandler.ListTemplates)
		admin.POST("/templates", cfg.AdminHandler.CreateTemplate)
		admin.PUT("/templates/:id", cfg.AdminHandler.UpdateTemplate)
		admin.DELETE("/templates/:id", cfg.AdminHandler.DeleteTemplate)

		admin.GET("/users", cfg.AdminHandler.ListUsers)
		admin.PATCH("/users/:id/status", cfg.AdminHandler.SetUserStatus)

		admin.GET("/feedback", cfg.AdminHandler.ListFeedback)
		admin.PATCH("/feedback/:id/resolve", cfg.AdminHandler.ResolveFeedback)

		admin.GET("/audit-logs", cfg.AdminHandler.ListAuditLogs)
	}

	return router
}
