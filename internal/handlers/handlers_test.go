package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"przepisnik/internal/ai"
	"przepisnik/internal/config"
	"przepisnik/internal/mail"
	"przepisnik/internal/shopping"
	"przepisnik/internal/substitution"
	"przepisnik/internal/variant"
	"przepisnik/models"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	original := database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.RecipeVariant{},
		&models.ShoppingListRecipe{},
		&models.IngredientSubstitution{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	database = db
	return db, func() {
		database = original
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

type stubTranslator struct {
	result   ai.TranslatedRecipe
	err      error
	calls    int
	lastText string
	lastCity string
}

func (s *stubTranslator) Translate(ctx context.Context, rawInput, targetCity string) (ai.TranslatedRecipe, error) {
	s.calls++
	s.lastText = rawInput
	s.lastCity = targetCity
	if s.err != nil {
		return ai.TranslatedRecipe{}, s.err
	}
	return s.result, nil
}

type stubAdapter struct {
	result ai.AdaptResult
	err    error
}

func (s *stubAdapter) Adapt(ctx context.Context, req ai.AdaptRequest) (ai.AdaptResult, error) {
	if s.err != nil {
		return ai.AdaptResult{}, s.err
	}
	return s.result, nil
}

type stubCategorizer struct {
	result map[string][]string
	err    error
	calls  int
}

func (s *stubCategorizer) Categorize(ctx context.Context, categories, ingredients []string) (map[string][]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return map[string][]string{"Inne": ingredients}, nil
}

// withServices installs test doubles for every domain service and returns a
// restore closure. The mailer starts unconfigured so email sends answer 503.
func withServices(t *testing.T, db *gorm.DB, translator TranslationGateway, adapter variant.AdaptationGateway, categorizer shopping.CategorizationGateway) func() {
	t.Helper()
	origTranslation := translationGateway
	origVariants := variantService
	origAggregator := aggregator
	origResolver := resolver
	origMailer := mailer

	res := substitution.NewResolver(db)
	translationGateway = translator
	variantService = variant.NewService(db, adapter)
	aggregator = shopping.NewAggregator(db, categorizer, res)
	resolver = res
	mailer = mail.NewMailer(config.SMTPConfig{})

	return func() {
		translationGateway = origTranslation
		variantService = origVariants
		aggregator = origAggregator
		resolver = origResolver
		mailer = origMailer
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:          email,
		PasswordHash:   string(hashed),
		SourceLanguage: models.DefaultSourceLanguage,
		SourceCountry:  models.DefaultSourceCountry,
		TargetLanguage: models.DefaultTargetLanguage,
		TargetCountry:  models.DefaultTargetCountry,
		TargetCity:     models.DefaultTargetCity,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedRecipe(t *testing.T, db *gorm.DB, userID uint, title string, ingredients models.IngredientList) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID:         userID,
		TitlePL:        title,
		TitleOriginal:  title,
		IngredientsPL:  ingredients,
		StepsPL:        models.StringList{"Wymieszaj."},
		RawInput:       "raw",
		SourceLanguage: "he",
		SourceCountry:  "IL",
		TargetLanguage: "pl",
		TargetCountry:  "PL",
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return recipe
}

// signedInRequest builds a request whose session context carries an
// authenticated user.
func signedInRequest(t *testing.T, sm *scs.SessionManager, method, target string, body io.Reader, userID uint) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserIDKey, int(userID))
	return req
}

func anonymousRequest(t *testing.T, sm *scs.SessionManager, method, target string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return req.WithContext(ctx)
}

func jsonBody(t *testing.T, payload any) io.Reader {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return bytes.NewReader(data)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
