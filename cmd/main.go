package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pressgen/pressgen-backend/internal/clients/deepseek"
	redisclient "github.com/pressgen/pressgen-backend/internal/clients/redis"
	"github.com/pressgen/pressgen-backend/internal/db"
	"github.com/pressgen/pressgen-backend/internal/handlers"
	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/middleware"
	"github.com/pressgen/pressgen-backend/internal/observability"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/server"
	"github.com/pressgen/pressgen-backend/internal/services"
	"github.com/pressgen/pressgen-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	tracingEnabled := utils.GetEnvAsBool("TRACING_ENABLED", false, log)
	allowedOrigins := strings.Split(utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")

	// Tracing
	shutdownTracing, err := observability.SetupTracing(context.Background(), log, "pressgen-backend")
	if err != nil {
		log.Warn("Tracing init failed", "error", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	templateRepo := repos.NewTemplateRepo(thePG, log)
	articleRepo := repos.NewArticleRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)
	auditLogRepo := repos.NewAuditLogRepo(thePG, log)

	// Redis template cache, optional
	templateCache, err := redisclient.NewTemplateCache(log)
	if err != nil {
		log.Warn("Redis unavailable, template cache disabled", "error", err)
		templateCache = nil
	}
	if templateCache != nil {
		defer templateCache.Close()
	}

	// Completion client
	deepseekCfg, err := deepseek.LoadConfig(log)
	if err != nil {
		log.Error("Could not load completion engine config", "error", err)
		os.Exit(1)
	}
	deepseekClient, err := deepseek.New(deepseekCfg, log)
	if err != nil {
		log.Error("Could not init completion client", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	templateService := services.NewTemplateService(log, templateRepo, templateCache)
	generationService := services.NewGenerationService(log, templateService, deepseekClient, articleRepo)
	articleService := services.NewArticleService(log, articleRepo)
	feedbackService := services.NewFeedbackService(log, feedbackRepo)
	adminService := services.NewAdminService(thePG, log, templateRepo, userRepo, userTokenRepo, feedbackRepo, auditLogRepo, templateCache)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	parseHandler := handlers.NewParseHandler(log)
	generateHandler := handlers.NewGenerateHandler(log, generationService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	articleHandler := handlers.NewArticleHandler(articleService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		AllowedOrigins:  allowedOrigins,
		TracingEnabled:  tracingEnabled,
		AuthMiddleware:  authMiddleware,
		AuthHandler:     authHandler,
		ParseHandler:    parseHandler,
		GenerateHandler: generateHandler,
		TemplateHandler: templateHandler,
		ArticleHandler:  articleHandler,
		FeedbackHandler: feedbackHandler,
		AdminHandler:    adminHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
