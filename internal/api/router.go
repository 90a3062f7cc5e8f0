package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/basisdhar/mrmanager/internal/api/handler"
	"github.com/basisdhar/mrmanager/internal/api/middleware"
	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
	"github.com/basisdhar/mrmanager/internal/core/service"
	"github.com/basisdhar/mrmanager/internal/infrastructure/config"
	mongodb "github.com/basisdhar/mrmanager/internal/infrastructure/db/mongo"
	redisdb "github.com/basisdhar/mrmanager/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	mails ports.MailQueue,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("mrmanager"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
	}))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	memberRepo := mongodb.NewMemberRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	tokenService := service.NewTokenService(
		cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL,
	)
	cooldown := redisdb.NewMailCooldown(rdb)
	authService := service.NewAuthService(
		userRepo, tokenService, mails, cooldown,
		cfg.PublicBaseURL+"/api/v1/auth/verify-email",
		cfg.ForgotPasswordRedirectURL,
		log,
	)
	projectService := service.NewProjectService(projectRepo, memberRepo, userRepo, taskRepo, log)
	taskService := service.NewTaskService(taskRepo)

	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)

	session := middleware.Session(tokenService, userRepo)
	requireRole := func(roles ...string) echo.MiddlewareFunc {
		return middleware.RequireProjectRole(memberRepo, log, roles...)
	}
	anyRole := domain.AvailableRoles

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, session)
	auth.GET("/current-user", authHandler.CurrentUser, session)
	auth.GET("/verify-email/:token", authHandler.VerifyEmail)
	auth.POST("/resend-email-verification", authHandler.ResendVerification, session)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)
	auth.POST("/change-password", authHandler.ChangePassword, session)

	// --- Project routes ---
	projects := v1.Group("/projects", session)
	projects.GET("", projectHandler.List)
	projects.POST("", projectHandler.Create)
	projects.GET("/:projectId", projectHandler.Get, requireRole(anyRole...))
	projects.PUT("/:projectId", projectHandler.Update, requireRole(domain.RoleAdmin, domain.RoleMember))
	projects.DELETE("/:projectId", projectHandler.Delete, requireRole(domain.RoleAdmin))

	projects.GET("/:projectId/members", projectHandler.ListMembers, requireRole(anyRole...))
	projects.POST("/:projectId/members", projectHandler.AddMember, requireRole(domain.RoleAdmin))
	projects.PUT("/:projectId/members/:userId", projectHandler.UpdateMemberRole, requireRole(domain.RoleAdmin))
	projects.DELETE("/:projectId/members/:userId", projectHandler.RemoveMember, requireRole(domain.RoleAdmin))

	// --- Task routes ---
	projects.GET("/:projectId/tasks", taskHandler.List, requireRole(anyRole...))
	projects.POST("/:projectId/tasks", taskHandler.Create, requireRole(domain.RoleAdmin, domain.RoleMember))
	projects.GET("/:projectId/tasks/:taskId", taskHandler.Get, requireRole(anyRole...))
	projects.PUT("/:projectId/tasks/:taskId", taskHandler.Update, requireRole(domain.RoleAdmin, domain.RoleMember))
	projects.DELETE("/:projectId/tasks/:taskId", taskHandler.Delete, requireRole(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
