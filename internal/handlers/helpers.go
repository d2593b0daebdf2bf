package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"studyflow-backend/internal/models"
	"studyflow-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	// A declined key selection silently aborts the operation.
	if errors.Is(err, services.ErrKeySelectionDeclined) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch e := err.(type) {
	case *services.ValidationError:
		message := e.Message
		if message == "" {
			message = "Validation failed"
		}
		if len(e.Fields) > 0 {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", message, e.Fields, r))
		} else {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", message, r))
		}
	case *services.UnsupportedFormatError:
		writeJSON(w, http.StatusBadRequest, errorResp("UNSUPPORTED_FORMAT", e.Error(), r))
	case *services.ParserUnavailableError:
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("PARSER_UNAVAILABLE", e.Error(), r))
	case *services.GenerationError:
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_ERROR", e.Message, r))
	case *services.InvalidRefinementError:
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_REFINEMENT", e.Error(), r))
	case *services.ConflictError:
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", e.Message, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
	case *services.UnauthorizedError:
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", e.Message, r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
