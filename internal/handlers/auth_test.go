package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"przepisnik/models"
)

func TestRegisterCreatesUserWithDefaultSettings(t *testing.T) {
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	payload := map[string]string{"email": "  New@Example.com ", "password": "password123"}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, payload))
	rec := httptest.NewRecorder()
	Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var got userResponse
	decodeBody(t, rec, &got)
	if got.Email != "new@example.com" {
		t.Fatalf("email = %q, want lowercased", got.Email)
	}
	if got.SourceLanguage != models.DefaultSourceLanguage || got.TargetCity != models.DefaultTargetCity {
		t.Fatalf("settings = %+v, want defaults", got)
	}

	var user models.User
	if err := db.Where("email = ?", "new@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("password hash mismatch: %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, map[string]string{
		"email":    "a@example.com",
		"password": "short",
	}))
	rec := httptest.NewRecorder()
	Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, map[string]string{
		"email":    "not-an-email",
		"password": "password123",
	}))
	rec := httptest.NewRecorder()
	Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	seedUser(t, db, "taken@example.com", "password123")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, map[string]string{
		"email":    "Taken@Example.com",
		"password": "password123",
	}))
	rec := httptest.NewRecorder()
	Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestRegisterRejectsMalformedPayload(t *testing.T) {
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	user := seedUser(t, db, "user@example.com", "password123")

	req := anonymousRequest(t, sm, http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{
		"email":    "USER@example.com",
		"password": "password123",
	}))
	rec := httptest.NewRecorder()
	Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}
	if got := sm.GetInt(req.Context(), sessionUserIDKey); got != int(user.ID) {
		t.Fatalf("session user id = %d, want %d", got, user.ID)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	seedUser(t, db, "user@example.com", "password123")

	req := anonymousRequest(t, sm, http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	}))
	rec := httptest.NewRecorder()
	Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := anonymousRequest(t, sm, http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{
		"email":    "missing@example.com",
		"password": "password123",
	}))
	rec := httptest.NewRecorder()
	Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)

	req := signedInRequest(t, sm, http.MethodPost, "/api/auth/logout", nil, 7)
	rec := httptest.NewRecorder()
	Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ActiveSession(req) {
		t.Fatal("expected session to be destroyed")
	}
}

func TestRequireAuthentication(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := anonymousRequest(t, sm, http.MethodGet, "/api/recipes", nil)
	rec := httptest.NewRecorder()
	RequireAuthentication(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req = signedInRequest(t, sm, http.MethodGet, "/api/recipes", nil, 7)
	rec = httptest.NewRecorder()
	RequireAuthentication(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want pass-through 204", rec.Code)
	}
}

func TestActiveSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActiveSession(req) {
		t.Fatal("expected inactive session when manager is nil")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req = signedInRequest(t, sm, http.MethodGet, "/", nil, 42)
	if !ActiveSession(req) {
		t.Fatal("expected active session when flags are set")
	}
}

func TestCurrentUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected currentUserID to fail without session manager")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req = anonymousRequest(t, sm, http.MethodGet, "/", nil)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected false when user id not set")
	}

	sm.Put(req.Context(), sessionUserIDKey, 7)
	id, ok := currentUserID(req)
	if !ok || id != 7 {
		t.Fatalf("expected user id 7, got %d (ok=%t)", id, ok)
	}
}
