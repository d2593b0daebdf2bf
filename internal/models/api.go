package models

import "github.com/google/uuid"

// GenerateRequest is the JSON body for text and URL generation.
type GenerateRequest struct {
	SourceType string `json:"source_type"` // "text" | "url"
	Text       string `json:"text"`
	URL        string `json:"url"`
	Style      string `json:"style"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
}

// RefineRequest derives flashcards or a quiz from an existing notes record.
type RefineRequest struct {
	TargetFormat string `json:"target_format"` // "flashcards" | "quiz"
	Count        int    `json:"count"`
}

type ThemeRequest struct {
	Theme string `json:"theme"` // "light" | "dark"
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	RecordID uuid.UUID `json:"record_id"`
	Step     string    `json:"step"`
	Detail   string    `json:"detail,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
