package models

import "time"

// ChatMessage is a single message in a tutor conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "model"
	Text      string    `json:"text"`
	Image     *string   `json:"image,omitempty"` // data URI
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the messages appended by one exchange.
type ChatResponse struct {
	Messages []ChatMessage `json:"messages"`
}
