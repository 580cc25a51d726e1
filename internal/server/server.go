package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"przepisnik/internal/ai"
	"przepisnik/internal/handlers"
	applog "przepisnik/internal/log"
	"przepisnik/internal/mail"
	"przepisnik/internal/shopping"
	"przepisnik/internal/substitution"
	"przepisnik/internal/variant"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr           string
	FrontendOrigin string
	Session        SessionConfig
	Database       *gorm.DB
	// AI may be nil; the affected endpoints then answer 503.
	AI *ai.Client
	// Mailer may be nil; the email endpoint then answers 503.
	Mailer *mail.Mailer
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	sessionCfg := cfg.Session
	if sessionCfg.Lifetime <= 0 {
		sessionCfg.Lifetime = 12 * time.Hour
	}
	if strings.TrimSpace(sessionCfg.CookieName) == "" {
		sessionCfg.CookieName = "przepisnik_session"
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = sessionCfg.Lifetime
	sessionManager.Cookie.Name = sessionCfg.CookieName
	sessionManager.Cookie.Domain = sessionCfg.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = sessionCfg.CookieSecure

	handlers.Configure(sessionManager, cfg.Database)

	resolver := substitution.NewResolver(cfg.Database)

	// A typed-nil *ai.Client must not leak into the gateway interfaces, so
	// the wiring stays explicit about the unconfigured case.
	var translationGateway handlers.TranslationGateway
	var adaptationGateway variant.AdaptationGateway
	var categorizationGateway shopping.CategorizationGateway
	if cfg.AI != nil {
		translationGateway = cfg.AI
		adaptationGateway = cfg.AI
		categorizationGateway = cfg.AI
	}

	handlers.ConfigureServices(
		translationGateway,
		variant.NewService(cfg.Database, adaptationGateway),
		shopping.NewAggregator(cfg.Database, categorizationGateway, resolver),
		resolver,
		cfg.Mailer,
	)

	applog.Debug(context.Background(), "handler dependencies configured",
		"ai", cfg.AI != nil,
		"mailer", cfg.Mailer != nil,
	)

	origin := strings.TrimSpace(cfg.FrontendOrigin)
	if origin == "" {
		origin = "http://localhost:5173"
	}
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	handler := corsMiddleware.Handler(sessionManager.LoadAndSave(newRouter()))

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
