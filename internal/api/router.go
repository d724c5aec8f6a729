package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/mb-platform/user-service/docs"
	"github.com/mb-platform/user-service/internal/api/handler"
	"github.com/mb-platform/user-service/internal/api/middleware"
	"github.com/mb-platform/user-service/internal/core/domain"
	"github.com/mb-platform/user-service/internal/core/ports"
	"github.com/mb-platform/user-service/internal/core/service"
	"github.com/mb-platform/user-service/internal/infrastructure/auth"
	mongodb "github.com/mb-platform/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/mb-platform/user-service/internal/infrastructure/db/redis"
	"github.com/mb-platform/user-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, audit ports.AuditRecorder) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("user_service"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	accountService := service.NewAccountService(userRepo, hasher, issuer, log)

	authHandler := handler.NewAuthHandler(accountService, audit)
	userHandler := handler.NewUserHandler(accountService, audit)

	requireAuth := middleware.Auth(cfg.JWTSecret)
	requireAdmin := middleware.RequireRole(accountService, domain.RoleAdmin)

	loginLimiter := redisdb.NewLoginLimiter(rdb, cfg.Login.RateAttempts, cfg.Login.RateWindow)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login, middleware.LoginRateLimit(loginLimiter, log))
	e.POST("/api/auth/logout", authHandler.Logout)

	// --- User routes ---
	users := e.Group("/api/users")
	users.GET("", userHandler.List, requireAuth)
	users.GET("/:id", userHandler.GetByID, requireAuth)
	users.GET("/name/:name", userHandler.GetByName, requireAuth)
	users.PUT("/:id", userHandler.Update, requireAuth)
	users.DELETE("/:id", userHandler.Delete, requireAuth, requireAdmin)
	users.GET("/check-name/:name", userHandler.CheckName)
	users.GET("/check-email/:email", userHandler.CheckEmail)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
