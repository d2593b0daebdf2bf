package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/services"
	"studyflow-backend/internal/store"
)

const maxUploadBytes = 20 << 20

type GenerateHandler struct {
	input     *services.InputService
	generator *services.Generator
	history   *store.HistoryStore
}

func NewGenerateHandler(input *services.InputService, generator *services.Generator, history *store.HistoryStore) *GenerateHandler {
	return &GenerateHandler{input: input, generator: generator, history: history}
}

// Generate handles text and URL sources submitted as JSON.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.run(w, r, services.InputRequest{
		SourceType: req.SourceType,
		Text:       req.Text,
		URL:        req.URL,
	}, req.Style, req.Format, req.Count)
}

// GenerateUpload handles file sources submitted as multipart form data.
func (h *GenerateHandler) GenerateUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart form", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Please upload a file.", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read uploaded file", r))
		return
	}

	count := 0
	if v := r.FormValue("count"); v != "" {
		count, _ = strconv.Atoi(v)
	}

	h.run(w, r, services.InputRequest{
		SourceType: services.SourceFile,
		Filename:   header.Filename,
		FileData:   data,
	}, r.FormValue("style"), r.FormValue("format"), count)
}

func (h *GenerateHandler) run(w http.ResponseWriter, r *http.Request, input services.InputRequest, styleStr, formatStr string, count int) {
	style, err := models.ParseStyle(styleStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}
	format, err := models.ParseFormat(formatStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())

	rawText, label, err := h.input.Acquire(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	rec, err := h.generator.Generate(r.Context(), userID, rawText, label, style, format, count)
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
