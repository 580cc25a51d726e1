package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"przepisnik/internal/ai"
	"przepisnik/internal/config"
	"przepisnik/internal/db"
	"przepisnik/internal/db/mock"
	applog "przepisnik/internal/log"
	"przepisnik/internal/mail"
	"przepisnik/internal/server"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		applog.Warn(ctx, "failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		applog.Error(ctx, "invalid log level", "error", err)
		os.Exit(1)
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Warn(ctx, "using in-memory mock database, data will not persist")
		database, err = mock.New(ctx)
	} else {
		database, err = db.Configure(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		os.Exit(1)
	}

	var aiClient *ai.Client
	if cfg.OpenAI.APIKey != "" {
		aiClient, err = ai.NewClient(ai.Config{
			APIKey:          cfg.OpenAI.APIKey,
			BaseURL:         cfg.OpenAI.BaseURL,
			TranslateModel:  cfg.OpenAI.TranslateModel,
			AdaptModel:      cfg.OpenAI.AdaptModel,
			CategorizeModel: cfg.OpenAI.CategorizeModel,
			Timeout:         cfg.OpenAI.Timeout,
		})
		if err != nil {
			applog.Error(ctx, "failed to configure ai client", "error", err)
			os.Exit(1)
		}
	} else {
		applog.Warn(ctx, "OPENAI_API_KEY not set, translation and adaptation endpoints will answer 503")
	}

	mailer := mail.NewMailer(cfg.SMTP)
	if !mailer.Configured() {
		applog.Warn(ctx, "smtp not configured, shopping-list email endpoint will answer 503")
	}

	srv, err := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		FrontendOrigin: cfg.Server.FrontendOrigin,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Database: database,
		AI:       aiClient,
		Mailer:   mailer,
	})
	if err != nil {
		applog.Error(ctx, "failed to initialize server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	applog.Info(ctx, "shutting down http server")
	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
