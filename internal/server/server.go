// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"filmrate/internal/auth"
	"filmrate/internal/cache"
	"filmrate/internal/config"
	"filmrate/internal/middleware"
	"filmrate/internal/models"
	"filmrate/internal/repository"
	"filmrate/internal/service"
	"filmrate/internal/store"
	"filmrate/internal/tmdb"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          *store.Client
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	ratingRepo     repository.RatingRepository
	watchlistRepo  repository.WatchlistRepository
	catalog        service.Catalog
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	st := store.New(cfg.TursoDatabaseURL, cfg.TursoAuthToken)
	redisClient := cache.Connect(cfg.RedisURL)
	api := tmdb.NewClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.TMDBLanguage)

	return NewServerWithDeps(cfg, st, redisClient, api)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the store and Redis.
func NewServerWithDeps(cfg *config.Config, st *store.Client, redisClient *redis.Client, api service.API) (*Server, error) {
	server := &Server{
		config:         cfg,
		store:          st,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("filmrate-api"),
		userRepo:       repository.NewUserRepository(st),
		ratingRepo:     repository.NewRatingRepository(st),
		watchlistRepo:  repository.NewWatchlistRepository(st),
		catalog:        service.NewCatalog(api, redisClient),
	}
	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
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
	app.Get("/", s.Root)
	app.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	authGroup := app.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Get("/me", s.AuthRequired(), s.Me)
	authGroup.Post("/update_profile", s.AuthRequired(), s.UpdateProfile)

	// Catalog proxy routes. Static routes before the dynamic /:id route.
	movies := app.Group("/movies", s.AuthRequired())
	movies.Get("/popular", s.PopularMovies)
	movies.Get("/search", s.SearchMovies)
	movies.Get("/top_rated", s.TopRatedMovies)
	movies.Get("/:id", s.MovieDetail)

	// Rating routes. /stats and /export before the dynamic /:tmdbID route.
	ratings := app.Group("/ratings", s.AuthRequired())
	ratings.Get("/", s.GetRatings)
	ratings.Post("/", s.SaveRating)
	ratings.Get("/stats", s.GetRatingStats)
	ratings.Get("/export", s.ExportRatings)
	ratings.Delete("/:tmdbID", s.DeleteRating)

	// Watchlist routes
	watchlist := app.Group("/watchlist", s.AuthRequired())
	watchlist.Get("/", s.GetWatchlist)
	watchlist.Post("/", s.AddToWatchlist)
	watchlist.Get("/check/:tmdbID", s.CheckWatchlist)
	watchlist.Delete("/:tmdbID", s.RemoveFromWatchlist)

	// Static assets and the SPA catch-all for everything that is not an API
	// or asset path.
	app.Static("/frontend", s.config.StaticDir)
	app.Get("/*", s.ServeSPA)
}

// Root handles the service banner endpoint
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":      true,
		"service": "FilmRate API",
	})
}

// HealthCheck probes the store and, when configured, Redis. The store is
// required; an unreachable store makes the service unhealthy.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if _, err := s.store.Query(ctx, "SELECT 1"); err != nil {
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
	if dbStatus != "healthy" {
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

// AuthRequired returns the authentication middleware. It resolves the bearer
// token to a live user row, so a token for a deleted user is rejected.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, ok := auth.CheckToken(s.config.SecretKey, tokenString)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token"))
		}

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return s.respondError(c, err)
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("User not found"))
		}

		c.Locals("userID", userID)
		c.Locals("user", user)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// ServeSPA serves the front end's index.html for any unmatched non-API path.
// Unmatched api/ and frontend/ paths stay plain 404s.
func (s *Server) ServeSPA(c *fiber.Ctx) error {
	path := strings.TrimPrefix(c.Path(), "/")
	if strings.HasPrefix(path, "api/") || strings.HasPrefix(path, "frontend/") {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Not found"))
	}
	return c.SendFile(filepath.Join(s.config.StaticDir, "index.html"))
}
