// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"chronicle/internal/cache"
	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	engagementRepo repository.EngagementRepository
	followerRepo   repository.FollowerRepository
	moderationRepo repository.ModerationRepository

	userService       *service.UserService
	postService       *service.PostService
	engagementService *service.EngagementService
	followService     *service.FollowService
	moderationService *service.ModerationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests and the bootstrap layer use this to establish
// DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("chronicle-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		engagementRepo: repository.NewEngagementRepository(db),
		followerRepo:   repository.NewFollowerRepository(db),
		moderationRepo: repository.NewModerationRepository(db),
	}

	server.userService = service.NewUserService(server.userRepo)
	server.postService = service.NewPostService(server.postRepo, server.userService.IsModerator)
	server.engagementService = service.NewEngagementService(
		server.engagementRepo, server.postRepo, server.userRepo, cfg.AnonymousViews)
	server.followService = service.NewFollowService(server.followerRepo, server.userRepo)
	server.moderationService = service.NewModerationService(
		server.postRepo, server.moderationRepo, server.userService.IsModerator)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	// Anonymous visitor token for the view ledger
	app.Use(middleware.Visitor())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	protected := middleware.Protected(s.config.JWTSecret)
	optional := middleware.OptionalAuth(s.config.JWTSecret)

	// User routes
	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.RegisterUser)
	users.Get("/", s.ListUsers)
	users.Get("/me", protected, s.GetMyProfile)
	users.Put("/me", protected, s.UpdateMyProfile)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/posts", protected, s.GetAuthorPosts)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Post("/:id/follow", protected, s.FollowUser)
	users.Delete("/:id/follow", protected, s.UnfollowUser)
	users.Get("/:id/follow", protected, s.GetFollowStatus)
	users.Get("/:id", s.GetUser)

	// Public post routes; detail records a view for the acting viewer
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", protected, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", protected, middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id/views", s.GetViewCount)
	posts.Put("/:id", protected, s.UpdatePost)
	posts.Delete("/:id", protected, s.DeletePost)
	posts.Get("/:slug", optional, s.GetPost)

	// Moderation routes
	moderation := api.Group("/moderation", protected)
	moderation.Get("/pending", s.GetPendingPosts)
	moderation.Post("/posts/:id/approve", s.ApprovePost)
	moderation.Post("/posts/:id/revoke", s.RevokePost)
	moderation.Get("/posts/:id/decisions", s.GetModerationDecisions)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// The cache is optional: readiness reports it but only the database
	// gates the overall status.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Chronicle API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
