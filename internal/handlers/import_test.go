package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"przepisnik/internal/ai"
)

func multipartUpload(t *testing.T, fieldName, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestImportRecipeFromTextUpload(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	user := seedUser(t, db, "user@example.com", "password123")

	translator := &stubTranslator{result: ai.TranslatedRecipe{TitlePL: "Szakszuka"}}
	t.Cleanup(withServices(t, db, translator, nil, nil))

	body, contentType := multipartUpload(t, "file", "przepis.txt", "מתכון שקשוקה מודבק מקובץ")
	req := signedInRequest(t, sm, http.MethodPost, "/api/recipes/import", body, user.ID)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if translator.lastText != "מתכון שקשוקה מודבק מקובץ" {
		t.Fatalf("translated text = %q", translator.lastText)
	}
}

func TestImportRecipeRejectsMissingFile(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	user := seedUser(t, db, "user@example.com", "password123")
	t.Cleanup(withServices(t, db, &stubTranslator{}, nil, nil))

	body, contentType := multipartUpload(t, "other", "przepis.txt", "treść")
	req := signedInRequest(t, sm, http.MethodPost, "/api/recipes/import", body, user.ID)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestImportRecipeRejectsEmptyText(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	user := seedUser(t, db, "user@example.com", "password123")
	translator := &stubTranslator{}
	t.Cleanup(withServices(t, db, translator, nil, nil))

	body, contentType := multipartUpload(t, "file", "przepis.txt", "   \n  ")
	req := signedInRequest(t, sm, http.MethodPost, "/api/recipes/import", body, user.ID)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if translator.calls != 0 {
		t.Fatalf("translator calls = %d, want 0", translator.calls)
	}
}

func TestDeriveTextFromUpload(t *testing.T) {
	t.Parallel()

	text, err := deriveTextFromUpload([]byte("zwykły tekst"), "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("deriveTextFromUpload() error = %v", err)
	}
	if text != "zwykły tekst" {
		t.Fatalf("text = %q", text)
	}

	if _, err := deriveTextFromUpload([]byte("not a pdf"), "application/pdf"); err == nil {
		t.Fatal("expected error for malformed pdf bytes")
	}
}

func TestMimeTypeFromName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"przepis.txt", "text/plain"},
		{"Przepis.PDF", "application/pdf"},
		{"przepis.docx", "application/octet-stream"},
		{"bez-rozszerzenia", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := mimeTypeFromName(tt.name); got != tt.want {
			t.Fatalf("mimeTypeFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
