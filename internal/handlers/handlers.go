// Package handlers implements the JSON API surface.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"przepisnik/internal/ai"
	applog "przepisnik/internal/log"
	"przepisnik/internal/mail"
	"przepisnik/internal/shopping"
	"przepisnik/internal/substitution"
	"przepisnik/internal/variant"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
)

// TranslationGateway turns raw foreign-language recipe text into a structured
// Polish recipe.
type TranslationGateway interface {
	Translate(ctx context.Context, rawInput, targetCity string) (ai.TranslatedRecipe, error)
}

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB

	translationGateway TranslationGateway
	variantService     *variant.Service
	aggregator         *shopping.Aggregator
	resolver           *substitution.Resolver
	mailer             *mail.Mailer
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB) {
	sessionManager = sm
	database = db
}

// ConfigureServices installs the domain services backing the API. A nil
// translation gateway makes recipe creation answer 503.
func ConfigureServices(
	translation TranslationGateway,
	variants *variant.Service,
	lists *shopping.Aggregator,
	substitutions *substitution.Resolver,
	m *mail.Mailer,
) {
	translationGateway = translation
	variantService = variants
	aggregator = lists
	resolver = substitutions
	mailer = m
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// writeGatewayError maps external collaborator failures onto the API's error
// responses: a missing configuration answers 503, a provider failure 502.
func writeGatewayError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var gw *ai.GatewayError
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		writeJSONError(w, http.StatusServiceUnavailable, "AI provider is not configured on the server")
	case errors.Is(err, mail.ErrNotConfigured):
		writeJSONError(w, http.StatusServiceUnavailable, "email service is not configured on the server")
	case errors.As(err, &gw):
		applog.Error(r.Context(), op+" failed upstream", "error", err)
		writeJSONError(w, http.StatusBadGateway, op+" failed")
	default:
		applog.Error(r.Context(), op+" failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, op+" failed")
	}
}
