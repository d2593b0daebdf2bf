package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"studyflow-backend/internal/chat"
	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/services"
	"studyflow-backend/internal/store"
)

type ChatHandler struct {
	history  *store.HistoryStore
	sessions *chat.Manager
	keys     services.KeySelector
}

func NewChatHandler(history *store.HistoryStore, sessions *chat.Manager, keys services.KeySelector) *ChatHandler {
	return &ChatHandler{history: history, sessions: sessions, keys: keys}
}

// Message runs one tutoring turn against the record's study material.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())

	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message must not be empty", r))
		return
	}

	rec, err := h.history.Get(r.Context(), email, id)
	if err != nil {
		handleServiceError(w, r, &services.NotFoundError{Message: "Record not found"})
		return
	}

	apiKey, ok := h.keys.SelectedKey(r.Context(), userID)
	if !ok {
		apiKey, ok = h.keys.OfferSelection(r.Context(), userID)
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	session, err := h.sessions.Session(r.Context(), userID, rec.ID, rec.ContextText(), apiKey)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_ERROR", "Failed to start tutoring session", r))
		return
	}

	messages, err := session.HandleMessage(r.Context(), message)
	if err != nil {
		if errors.Is(err, chat.ErrBusy) {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "A reply is already in progress. Please wait.", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Messages: messages})
}
