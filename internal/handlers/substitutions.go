package handlers

import (
	"net/http"

	applog "przepisnik/internal/log"
)

// ReportSubstitution handles POST /api/substitutions/report: a user reports a
// better replacement for an ingredient between their market pair.
func ReportSubstitution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil || resolver == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		OriginalLabel      string `json:"original_label"`
		SourceCountry      string `json:"source_country"`
		TargetCountry      string `json:"target_country"`
		BetterSubstitution string `json:"better_substitution"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if _, err := resolver.Report(userID, payload.OriginalLabel, payload.SourceCountry, payload.TargetCountry, payload.BetterSubstitution); err != nil {
		applog.Debug(r.Context(), "rejected substitution report", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid substitution report")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}
