package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyflow-backend/internal/chat"
	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/services"
	"studyflow-backend/internal/store"
)

type HistoryHandler struct {
	history   *store.HistoryStore
	generator *services.Generator
	sessions  *chat.Manager
}

func NewHistoryHandler(history *store.HistoryStore, generator *services.Generator, sessions *chat.Manager) *HistoryHandler {
	return &HistoryHandler{history: history, generator: generator, sessions: sessions}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())

	records := h.history.Load(r.Context(), email)
	resp := map[string]interface{}{"records": records}
	if active, ok := h.history.Active(r.Context(), email); ok {
		resp["active_id"] = active
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single record and marks it as the active view.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())

	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}

	rec, err := h.history.Get(r.Context(), email, id)
	if err != nil {
		handleServiceError(w, r, &services.NotFoundError{Message: "Record not found"})
		return
	}

	if err := h.history.SetActive(r.Context(), email, rec.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())

	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}

	removed, err := h.history.Remove(r.Context(), email, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !removed {
		handleServiceError(w, r, &services.NotFoundError{Message: "Record not found"})
		return
	}

	h.sessions.Drop(userID, id)
	w.WriteHeader(http.StatusNoContent)
}

// Refine derives flashcards or a quiz from an existing notes record.
func (h *HistoryHandler) Refine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())

	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}

	var req models.RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	target, err := models.ParseFormat(req.TargetFormat)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	source, err := h.history.Get(r.Context(), email, id)
	if err != nil {
		handleServiceError(w, r, &services.NotFoundError{Message: "Record not found"})
		return
	}

	rec, err := h.generator.Refine(r.Context(), userID, source, target, req.Count)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.history.Append(r.Context(), email, rec); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := h.history.SetActive(r.Context(), email, rec.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func recordIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return uuid.Nil, false
	}
	return id, true
}
