package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	OpenAI   OpenAIConfig
	SMTP     SMTPConfig
	LogLevel string
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
	// FrontendOrigin is the browser origin of the SPA allowed by CORS.
	FrontendOrigin string
}

// DatabaseConfig contains the database connection settings. UseMock swaps
// the Postgres connection for a seeded in-memory database.
type DatabaseConfig struct {
	URL             string
	UseMock         bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// SessionConfig controls cookie-session behavior.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// OpenAIConfig configures the AI provider gateways. An empty APIKey leaves
// the gateways unconfigured; the affected endpoints report 503 rather than
// failing at startup.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	TranslateModel  string
	AdaptModel      string
	CategorizeModel string
	Timeout         time.Duration
}

// SMTPConfig configures outgoing shopping-list email. Host, Username and
// Password must all be present for the mailer to be considered configured.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
		FrontendOrigin: firstNonEmpty(
			os.Getenv("FRONTEND_ORIGIN"),
			"http://localhost:5173",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		UseMock: boolEnv("DATABASE_USE_MOCK"),
	}

	var err error
	if cfg.Database.MaxIdleConns, err = intEnv("DB_MAX_IDLE_CONNS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxOpenConns, err = intEnv("DB_MAX_OPEN_CONNS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.ConnMaxLifetime, err = durationEnv("DB_CONN_MAX_LIFETIME", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.ConnMaxIdleTime, err = durationEnv("DB_CONN_MAX_IDLE_TIME", 0); err != nil {
		return Config{}, err
	}

	cfg.Session = SessionConfig{
		CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "przepisnik_session"),
		CookieDomain: os.Getenv("SESSION_COOKIE_DOMAIN"),
		CookieSecure: boolEnv("SESSION_COOKIE_SECURE"),
	}
	if cfg.Session.Lifetime, err = durationEnv("SESSION_LIFETIME", 12*time.Hour); err != nil {
		return Config{}, err
	}

	cfg.OpenAI = OpenAIConfig{
		APIKey:          os.Getenv("OPENAI_API_KEY"),
		BaseURL:         os.Getenv("OPENAI_BASE_URL"),
		TranslateModel:  firstNonEmpty(os.Getenv("OPENAI_TRANSLATE_MODEL"), "gpt-4o"),
		AdaptModel:      firstNonEmpty(os.Getenv("OPENAI_ADAPT_MODEL"), "gpt-4o-mini"),
		CategorizeModel: firstNonEmpty(os.Getenv("OPENAI_CATEGORIZE_MODEL"), "gpt-4o-mini"),
	}
	if cfg.OpenAI.Timeout, err = durationEnv("OPENAI_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}

	cfg.SMTP = SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     firstNonEmpty(os.Getenv("SMTP_FROM"), os.Getenv("SMTP_USER")),
	}
	if cfg.SMTP.Port, err = intEnv("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = firstNonEmpty(os.Getenv("LOG_LEVEL"), "info")

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func boolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
