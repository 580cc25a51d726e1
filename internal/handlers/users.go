package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "przepisnik/internal/log"
	"przepisnik/models"
)

type userResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	SourceLanguage string    `json:"source_language"`
	SourceCountry  string    `json:"source_country"`
	TargetLanguage string    `json:"target_language"`
	TargetCountry  string    `json:"target_country"`
	TargetCity     string    `json:"target_city"`
	CreatedAt      time.Time `json:"created_at"`
}

type userSettingsRequest struct {
	SourceLanguage string `json:"source_language"`
	SourceCountry  string `json:"source_country"`
	TargetLanguage string `json:"target_language"`
	TargetCountry  string `json:"target_country"`
	TargetCity     string `json:"target_city"`
}

func projectUser(user *models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Email:          user.Email,
		SourceLanguage: user.SourceLanguage,
		SourceCountry:  user.SourceCountry,
		TargetLanguage: user.TargetLanguage,
		TargetCountry:  user.TargetCountry,
		TargetCity:     user.TargetCity,
		CreatedAt:      user.CreatedAt,
	}
}

// CurrentUser answers GET /api/users/me.
func CurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		applog.Error(r.Context(), "failed to load current user", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load account")
		return
	}

	writeJSON(w, http.StatusOK, projectUser(user))
}

// UpdateSettings answers PATCH /api/users/me/settings, replacing the user's
// translation direction and market pair.
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		applog.Error(r.Context(), "failed to load current user", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load account")
		return
	}

	var payload userSettingsRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user.SourceLanguage = strings.TrimSpace(payload.SourceLanguage)
	user.SourceCountry = strings.TrimSpace(payload.SourceCountry)
	user.TargetLanguage = strings.TrimSpace(payload.TargetLanguage)
	user.TargetCountry = strings.TrimSpace(payload.TargetCountry)
	user.TargetCity = strings.TrimSpace(payload.TargetCity)

	for field, value := range map[string]string{
		"source_language": user.SourceLanguage,
		"source_country":  user.SourceCountry,
		"target_language": user.TargetLanguage,
		"target_country":  user.TargetCountry,
		"target_city":     user.TargetCity,
	} {
		if value == "" {
			writeJSONError(w, http.StatusBadRequest, field+" is required")
			return
		}
	}

	if err := database.WithContext(r.Context()).Save(user).Error; err != nil {
		applog.Error(r.Context(), "failed to update settings", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to update settings")
		return
	}

	writeJSON(w, http.StatusOK, projectUser(user))
}
