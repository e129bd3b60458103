// Package server wires the HTTP API, the realtime feed and their dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"blog/internal/auth"
	"blog/internal/cache"
	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/docstore"
	"blog/internal/featureflags"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/notifications"
	"blog/internal/repository"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and the Fiber app built from them.
type Server struct {
	config      *config.Config
	store       repository.Store
	redis       *redis.Client
	app         *fiber.App
	metrics     *middleware.Metrics
	tokens      *auth.Tokens
	flags       *featureflags.Manager
	hub         *notifications.Hub
	feed        *notifications.Feed
	feedSocket  fiber.Handler
	shutdownCtx context.Context
	shutdownFn  context.CancelFunc

	posts    *postHandler
	comments *commentHandler
	likes    *likeHandler
	users    *authHandler
}

// NewServer connects the store selected by DB_DRIVER and Redis, then builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	// Redis is optional: without it caching, revocation and cross-instance
	// fan-out are disabled.
	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, store, redisClient)
}

// OpenStore connects the store selected by DB_DRIVER.
func OpenStore(cfg *config.Config) (repository.Store, error) {
	if cfg.DBDriver == config.DriverMongo {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("document store connection failed: %w", err)
		}
		return store, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return repository.NewGormStore(db), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, store repository.Store, redisClient *redis.Client) (*Server, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:      cfg,
		store:       store,
		redis:       redisClient,
		metrics:     middleware.InitMetrics("blog-api"),
		tokens:      auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, redisClient),
		hub:         notifications.NewHub(),
		shutdownCtx: ctx,
		shutdownFn:  cancel,
	}
	cache.SetClient(redisClient)
	s.feed = notifications.NewFeed(s.hub, notifications.NewNotifier(redisClient))
	s.feedSocket = s.newFeedSocket()

	s.flags = featureflags.NewManager(cfg.FeatureFlags)
	s.posts = &postHandler{svc: service.NewPostService(store.Posts(), store.Comments(), store.Likes(), s.flags, s.feed)}
	s.comments = &commentHandler{svc: service.NewCommentService(store.Posts(), store.Comments(), s.feed)}
	s.likes = &likeHandler{svc: service.NewLikeService(store.Posts(), store.Likes(), s.feed)}
	s.users = &authHandler{svc: service.NewUserService(store.Users(), s.tokens)}

	s.app = fiber.New(fiber.Config{
		AppName:      "Blog API",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(s.app)
	s.SetupRoutes(s.app)

	return s, nil
}

// App exposes the Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	app.Use(s.metrics.Middleware())
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.config.Origins(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes registers the health, metrics and API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/metrics", s.metrics.Handler())

	for _, r := range s.routes() {
		handlers := make([]fiber.Handler, 0, 3)
		if r.auth {
			handlers = append(handlers, s.tokens.Required())
		}
		if r.write {
			handlers = append(handlers, middleware.RateLimit(s.config.Env, s.redis, s.config.RateLimitWrites, time.Minute, "writes"))
		}
		handlers = append(handlers, r.handler)
		app.Add(r.method, r.path, handlers...)
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports 503 when the store is unreachable. A Redis failure
// only degrades the service.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	switch {
	case storeStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	case redisStatus != "healthy":
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"time": time.Now(),
	})
}

// Start subscribes the feed to Redis and listens on the configured port.
func (s *Server) Start() error {
	if err := s.feed.Start(s.shutdownCtx); err != nil {
		middleware.Logger.Warn("feed subscription failed, events stay local", slog.String("error", err.Error()))
	}
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.feed.Start(s.shutdownCtx); err != nil {
		middleware.Logger.Warn("feed subscription failed, events stay local", slog.String("error", err.Error()))
	}
	return s.app.Listener(ln)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownFn()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
	}
	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down feed hub", slog.String("error", err.Error()))
	}
	if err := s.store.Close(); err != nil {
		middleware.Logger.Error("error closing store", slog.String("error", err.Error()))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
