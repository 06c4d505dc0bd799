// Package server provides the HTTP server and routing.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/config"
	"github.com/nvasilakis/fintrack/internal/di"
	accounthandlers "github.com/nvasilakis/fintrack/internal/modules/accounts/handlers"
	analyticshandlers "github.com/nvasilakis/fintrack/internal/modules/analytics/handlers"
	budgethandlers "github.com/nvasilakis/fintrack/internal/modules/budgets/handlers"
	categoryhandlers "github.com/nvasilakis/fintrack/internal/modules/categories/handlers"
	goalhandlers "github.com/nvasilakis/fintrack/internal/modules/goals/handlers"
	migrationhandlers "github.com/nvasilakis/fintrack/internal/modules/migration/handlers"
	transactionhandlers "github.com/nvasilakis/fintrack/internal/modules/transactions/handlers"
	userhandlers "github.com/nvasilakis/fintrack/internal/modules/users/handlers"
	"github.com/nvasilakis/fintrack/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Port      int
	Log       zerolog.Logger
	Container *di.Container
	Config    *config.Config
	Scheduler *scheduler.Scheduler
	Jobs      *di.JobInstances
	DevMode   bool
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	container      *di.Container
	cfg            *config.Config
	scheduler      *scheduler.Scheduler
	jobs           *di.JobInstances
	systemHandlers *SystemHandlers
	eventsStream   *EventsStreamHandler
	startupTime    time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		container:   cfg.Container,
		cfg:         cfg.Config,
		scheduler:   cfg.Scheduler,
		jobs:        cfg.Jobs,
		startupTime: time.Now(),
	}

	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Config.DataDir, cfg.Container, cfg.Scheduler, cfg.Jobs, s.startupTime)
	s.eventsStream = NewEventsStreamHandler(cfg.Container.EventBus, cfg.Log)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Module routes
		userhandlers.NewHandler(s.container.UserRepo, s.log).RegisterRoutes(r)
		accounthandlers.NewHandler(s.container.AccountService, s.log).RegisterRoutes(r)
		transactionhandlers.NewHandler(s.container.TransactionService, s.log).RegisterRoutes(r)
		categoryhandlers.NewHandler(s.container.CategoryRepo, s.log).RegisterRoutes(r)
		budgethandlers.NewHandler(s.container.BudgetRepo, s.log).RegisterRoutes(r)
		goalhandlers.NewHandler(s.container.GoalService, s.log).RegisterRoutes(r)
		migrationhandlers.NewHandler(s.container.MigrationService, s.log).RegisterRoutes(r)
		analyticshandlers.NewHandler(s.container.AnalyticsService, s.log).RegisterRoutes(r)

		// System monitoring and operations
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/stats", s.systemHandlers.HandleDatabaseStats)
			r.Get("/backups", s.systemHandlers.HandleListBackups)
			r.Post("/backups", s.systemHandlers.HandleTriggerBackup)
			r.Post("/maintenance", s.systemHandlers.HandleTriggerMaintenance)
		})

		// Server-Sent Events stream
		r.Get("/events/stream", s.eventsStream.ServeHTTP)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
