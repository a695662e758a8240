// Package server wires the application together: it owns the router,
// the database, and the dependency graph, and handles startup and
// graceful shutdown.
//
// COMPOSITION ROOT:
// All construction happens in New/setupRoutes — repositories, services,
// and handlers are built here and passed down explicitly. Nothing in the
// app reaches for process-wide state; the Server owns everything and
// closes what it owns on shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sandesh/weatherly/internal/auth"
	"github.com/sandesh/weatherly/internal/handler"
	"github.com/sandesh/weatherly/internal/middleware"
	sqliteRepo "github.com/sandesh/weatherly/internal/repository/sqlite"
	"github.com/sandesh/weatherly/internal/service"
	"github.com/sandesh/weatherly/internal/weather"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string

	// SessionSecret signs session tokens. Required — the app is useless
	// without login.
	SessionSecret string

	// WeatherAPIKey is the OpenWeather credential. May be empty; lookups
	// then fail and the dashboard renders without the weather panel.
	WeatherAPIKey string

	// GitHub OAuth is optional. The sign-in routes are only registered
	// when ClientID and ClientSecret are both set.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server is the HTTP server and the owner of its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB // closed on shutdown
}

// New builds the full dependency graph and the route table.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes builds services and handlers and binds them to paths.
//
// ROUTE TABLE:
//
//	GET  /                        landing page (redirects to /dashboard when logged in)
//	GET  /static/*                static assets
//	GET+POST /register, /login    anonymous only
//	GET  /logout                  authenticated
//	GET  /dashboard               authenticated, optional ?city=
//	POST /add_task                authenticated
//	GET  /delete_task/{taskID}    authenticated
//	GET  /toggle_task/{taskID}    authenticated
//	GET  /auth/github/*           anonymous only, when GitHub OAuth is configured
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Services ===
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	authSvc := service.NewAuthService(s.db.Users(), auth.NewPasswordService(), s.logger)
	taskSvc := service.NewTaskService(s.db.Tasks(), s.logger)
	weatherClient := weather.New(s.config.WeatherAPIKey, s.logger)
	dashboardSvc := service.NewDashboardService(authSvc, taskSvc, weatherClient, s.logger)

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	// === Handlers ===
	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	pageHandler := handler.NewPageHandler(sessions, renderer)
	authHandler := handler.NewAuthHandler(authSvc, sessions, github, renderer, s.logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, renderer, s.logger)
	taskHandler := handler.NewTaskHandler(taskSvc, s.logger)

	// === Routes ===
	s.router.Get("/", pageHandler.HandleIndex)

	// Anonymous-only pages: a logged-in user is bounced to the dashboard.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RedirectIfAuthenticated(sessions))
		r.Get("/register", authHandler.HandleRegisterPage)
		r.Post("/register", authHandler.HandleRegister)
		r.Get("/login", authHandler.HandleLoginPage)
		r.Post("/login", authHandler.HandleLogin)

		if authHandler.GitHubEnabled() {
			r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
			r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	// Authenticated pages: anonymous requests are redirected to /login.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(sessions))
		r.Get("/logout", authHandler.HandleLogout)
		r.Get("/dashboard", dashboardHandler.HandleDashboard)
		r.Post("/add_task", taskHandler.HandleAddTask)
		r.Get("/delete_task/{taskID}", taskHandler.HandleDeleteTask)
		r.Get("/toggle_task/{taskID}", taskHandler.HandleToggleTask)
	})

	return nil
}

// Router exposes the configured router for httptest-based testing.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
