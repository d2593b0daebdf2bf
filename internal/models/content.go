package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Format string

const (
	FormatNotes      Format = "notes"
	FormatFlashcards Format = "flashcards"
	FormatQuiz       Format = "quiz"
	FormatVideo      Format = "video"
)

type Style string

const (
	StyleSimple   Style = "simple"
	StyleAdvanced Style = "advanced"
	StyleExam     Style = "exam"
	StyleCreative Style = "creative"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatNotes:
		return FormatNotes, nil
	case FormatFlashcards:
		return FormatFlashcards, nil
	case FormatQuiz:
		return FormatQuiz, nil
	case FormatVideo:
		return FormatVideo, nil
	}
	return "", fmt.Errorf("unknown output format: %q", s)
}

func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleSimple:
		return StyleSimple, nil
	case StyleAdvanced:
		return StyleAdvanced, nil
	case StyleExam:
		return StyleExam, nil
	case StyleCreative:
		return StyleCreative, nil
	}
	return "", fmt.Errorf("unknown study style: %q", s)
}

// Label is the human-readable form used in prompts and API responses.
func (s Style) Label() string {
	switch s {
	case StyleSimple:
		return "Simple"
	case StyleAdvanced:
		return "Advanced"
	case StyleExam:
		return "Exam Focused"
	case StyleCreative:
		return "Creative"
	}
	return string(s)
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// ContentRecord is one generated study artifact. Exactly one of the payload
// fields (Notes, Flashcards, Quiz, VideoURI) is populated, matching Format.
type ContentRecord struct {
	ID          uuid.UUID      `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Title       string         `json:"title"`
	SourceLabel string         `json:"source_label"`
	Format      Format         `json:"format"`
	Style       Style          `json:"style"`
	Notes       *string        `json:"notes,omitempty"`
	Flashcards  []Flashcard    `json:"flashcards,omitempty"`
	Quiz        []QuizQuestion `json:"quiz,omitempty"`
	VideoURI    *string        `json:"video_uri,omitempty"`
}

func NewContentRecord(title, sourceLabel string, format Format, style Style) *ContentRecord {
	return &ContentRecord{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		Title:       title,
		SourceLabel: sourceLabel,
		Format:      format,
		Style:       style,
	}
}

// Validate checks the one-payload-per-format invariant.
func (r *ContentRecord) Validate() error {
	populated := 0
	if r.Notes != nil {
		populated++
	}
	if r.Flashcards != nil {
		populated++
	}
	if r.Quiz != nil {
		populated++
	}
	if r.VideoURI != nil {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("content record %s has %d payload fields populated, want exactly 1", r.ID, populated)
	}

	var match bool
	switch r.Format {
	case FormatNotes:
		match = r.Notes != nil
	case FormatFlashcards:
		match = r.Flashcards != nil
	case FormatQuiz:
		match = r.Quiz != nil
	case FormatVideo:
		match = r.VideoURI != nil
	default:
		return fmt.Errorf("content record %s has unknown format %q", r.ID, r.Format)
	}
	if !match {
		return fmt.Errorf("content record %s payload does not match format %q", r.ID, r.Format)
	}
	return nil
}

// ContextText returns the text used to ground a tutor chat session over this
// record. Notes use the markdown body directly; the other formats render a
// plain-text view of their items.
func (r *ContentRecord) ContextText() string {
	switch r.Format {
	case FormatNotes:
		if r.Notes != nil {
			return *r.Notes
		}
	case FormatFlashcards:
		var b strings.Builder
		b.WriteString(r.Title + "\n\n")
		for _, c := range r.Flashcards {
			b.WriteString("Q: " + c.Front + "\nA: " + c.Back + "\n\n")
		}
		return b.String()
	case FormatQuiz:
		var b strings.Builder
		b.WriteString(r.Title + "\n\n")
		for _, q := range r.Quiz {
			b.WriteString(q.Question + "\n")
			b.WriteString("Answer: " + q.CorrectOption + "\n")
			if q.Explanation != "" {
				b.WriteString(q.Explanation + "\n")
			}
			b.WriteString("\n")
		}
		return b.String()
	case FormatVideo:
		return r.Title + "\n" + r.SourceLabel
	}
	return ""
}
