// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "tastr/docs" // swagger docs
	"tastr/internal/cache"
	"tastr/internal/config"
	"tastr/internal/database"
	"tastr/internal/listing"
	"tastr/internal/middleware"
	"tastr/internal/models"
	"tastr/internal/notifications"
	"tastr/internal/observability"
	"tastr/internal/repository"
	"tastr/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const listingCacheTTL = 30 * time.Second

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	tracerShutdown func(context.Context) error

	userRepo       repository.UserRepository
	followRepo     repository.FollowRepository
	restaurantRepo repository.RestaurantRepository
	reviewRepo     repository.ReviewRepository
	wantToTryRepo  repository.WantToTryRepository
	favoriteRepo   repository.FavoriteRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub

	followService     *service.FollowService
	popularityService *service.PopularityService
	userService       *service.UserService
	reviewService     *service.ReviewService
	listService       *service.ListService
	avatarService     *service.AvatarService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	taxonomy, err := listing.LoadTaxonomyFile(cfg.CuisineFile)
	if err != nil {
		log.Printf("cuisine taxonomy unavailable, falling back to exact-name matching: %v", err)
	}

	return buildServer(cfg, db, redisClient, taxonomy), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, taxonomy *listing.Taxonomy) (*Server, error) {
	return buildServer(cfg, db, redisClient, taxonomy), nil
}

func buildServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, taxonomy *listing.Taxonomy) *Server {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wantToTryRepo := repository.NewWantToTryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("tastr-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		followRepo:     followRepo,
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
		wantToTryRepo:  wantToTryRepo,
		favoriteRepo:   favoriteRepo,
	}

	// Initialize notifier and hub if Redis is available
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
	}

	engine := listing.NewEngine(taxonomy, language.English)
	results := listing.NewResultCache(engine, listingCacheTTL)

	server.followService = service.NewFollowService(followRepo, userRepo, server.notifier)
	server.popularityService = service.NewPopularityService(followRepo, reviewRepo)
	server.userService = service.NewUserService(userRepo, server.followService)
	server.reviewService = service.NewReviewService(reviewRepo, restaurantRepo, followRepo)
	server.listService = service.NewListService(reviewRepo, wantToTryRepo, favoriteRepo, restaurantRepo, results)
	server.avatarService = service.NewAvatarService(userRepo, cfg)

	return server
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

	// Tracing spans wrap everything below once enabled
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Tastr Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Processed avatars are served as static files
	app.Static("/media/avatars", s.avatarService.UploadDir())

	// Public legal text
	legal := api.Group("/legal")
	legal.Get("/terms", s.GetTermsOfService)
	legal.Get("/privacy", s.GetPrivacyPolicy)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Profile routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/me/avatar", s.UploadAvatar)
	users.Get("/search", middleware.RateLimit(
		s.redis, 20, time.Minute, "user_search"), s.SearchUsers)
	// Specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/counts", s.GetFollowCounts)
	users.Get("/:id/reviews", s.GetUserReviews)
	users.Get("/:id", s.GetUserProfile)

	// Follow graph routes
	follows := protected.Group("/follows")
	follows.Post("/status/batch", s.GetFollowStatusBatch)
	follows.Get("/status/:userId", s.GetFollowStatus)
	follows.Post("/:userId", middleware.RateLimit(
		s.redis, 30, time.Minute, "follow"), s.FollowUser)
	follows.Delete("/:userId", s.UnfollowUser)

	// Popularity feed
	feed := protected.Group("/feed")
	feed.Get("/popular", s.GetPopularRestaurants)

	// Restaurant routes
	restaurants := protected.Group("/restaurants")
	restaurants.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "restaurant_search"), s.SearchRestaurants)
	restaurants.Get("/cuisines", s.GetCuisines)
	restaurants.Get("/visited", s.GetVisitedRestaurants)
	restaurants.Get("/:id/reviews", s.GetRestaurantReviews)
	restaurants.Get("/:id", s.GetRestaurant)

	// Review routes
	reviews := protected.Group("/reviews")
	reviews.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_review"), s.CreateReview)
	reviews.Put("/:id", s.UpdateReview)
	reviews.Delete("/:id", s.DeleteReview)

	// Personal lists
	lists := protected.Group("/lists")
	lists.Get("/want-to-try", s.GetWantToTry)
	lists.Post("/want-to-try/:restaurantId", s.AddWantToTry)
	lists.Delete("/want-to-try/:restaurantId", s.RemoveWantToTry)
	lists.Get("/favorites", s.GetFavorites)
	lists.Post("/favorites/:restaurantId", s.AddFavorite)
	lists.Delete("/favorites/:restaurantId", s.RemoveFavorite)

	// WebSocket ticket issuance
	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)

	// Websocket endpoint - protected by AuthRequired
	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/", s.WebsocketHandler())
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
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Tokens come from the
// external identity provider; websocket connections use short-lived
// single-use tickets instead of bearer tokens.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		isWSPath := strings.HasPrefix(path, "/api/ws")

		// 1. Try WebSocket ticket first (short-lived, single-use)
		ticket := c.Query("ticket")
		if ticket != "" && s.redis != nil {
			key := fmt.Sprintf("ws_ticket:%s", ticket)
			userIDStr, err := s.redis.Get(c.Context(), key).Result()
			if err == nil {
				userID, parseErr := strconv.ParseUint(userIDStr, 10, 32)
				if parseErr == nil {
					// Delete ticket immediately (single-use)
					s.redis.Del(c.Context(), key)

					c.Locals("userID", uint(userID))
					ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
					c.SetUserContext(ctx)
					return c.Next()
				}
			}
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		// 2. Fall back to JWT bearer token
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	tracerShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "tastr-api",
		ServiceVersion: "1.0.0",
		Environment:    s.config.Env,
		Enabled:        s.config.TracingEnabled,
		Exporter:       s.config.TracingExport,
		OTLPEndpoint:   s.config.OTLPEndpoint,
		SamplerRatio:   s.config.SamplerRatio,
	})
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	s.tracerShutdown = tracerShutdown

	app := fiber.New(fiber.Config{
		AppName: "Tastr API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the hub to the Redis subscriber if available
	if s.notifier != nil && s.hub != nil {
		if err := s.hub.StartWiring(ctx, s.notifier); err != nil {
			log.Printf("failed to wire notification hub: %v", err)
		}
	}

	addr := ":" + s.config.Port
	middleware.Logger.Info("server starting", "addr", addr, "env", s.config.Env)
	return app.Listen(addr)
}

// Shutdown gracefully stops the server and its hubs.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("hub shutdown error: %v", err)
		}
	}
	if s.tracerShutdown != nil {
		if err := s.tracerShutdown(ctx); err != nil {
			log.Printf("tracer shutdown error: %v", err)
		}
	}
	if s.app != nil {
		return s.app.ShutdownWithContext(ctx)
	}
	return nil
}
