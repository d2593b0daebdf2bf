package handlers

import (
	"encoding/json"
	"net/http"

	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/store"
)

type PrefsHandler struct {
	prefs *store.PrefsStore
}

func NewPrefsHandler(prefs *store.PrefsStore) *PrefsHandler {
	return &PrefsHandler{prefs: prefs}
}

func (h *PrefsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"theme": h.prefs.Theme(r.Context(), email)})
}

func (h *PrefsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req models.ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Theme must be \"light\" or \"dark\"", r))
		return
	}

	email := middleware.GetUserEmail(r.Context())
	if err := h.prefs.SetTheme(r.Context(), email, req.Theme); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

func (h *PrefsHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{
		"completed": h.prefs.OnboardingComplete(r.Context(), email),
	})
}

func (h *PrefsHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if err := h.prefs.CompleteOnboarding(r.Context(), email); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": true})
}
