package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/repository"
	"studyflow-backend/internal/services"
)

type UserHandler struct {
	userRepo *repository.UserRepo
}

func NewUserHandler(userRepo *repository.UserRepo) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, &services.NotFoundError{Message: "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        user,
		"has_api_key": user.GeminiAPIKey != nil && *user.GeminiAPIKey != "",
	})
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"full_name": "Full name is required"}, r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.userRepo.UpdateProfile(r.Context(), userID, req.FullName, req.AvatarURL); err != nil {
		handleServiceError(w, r, err)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// SetAPIKey stores the user's own Gemini key for the costly generation paths.
func (h *UserHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "API key must not be empty", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.userRepo.SetAPIKey(r.Context(), userID, strings.TrimSpace(req.APIKey)); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"has_api_key": true})
}
