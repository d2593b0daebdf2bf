package services

import (
	"errors"
	"fmt"

	"studyflow-backend/internal/models"
)

// ErrKeySelectionDeclined aborts a video generation silently: the caller
// clears its loading state and creates no record.
var ErrKeySelectionDeclined = errors.New("api key selection declined")

// ValidationError covers empty or missing input; it blocks dispatch.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Validation error"
}

// UnsupportedFormatError is returned for a file extension no decoder handles.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}

// ParserUnavailableError is returned when the decoder for a recognized
// extension fails to produce text.
type ParserUnavailableError struct {
	Ext string
	Err error
}

func (e *ParserUnavailableError) Error() string {
	return fmt.Sprintf("parser for %s files is unavailable: %v", e.Ext, e.Err)
}

func (e *ParserUnavailableError) Unwrap() error { return e.Err }

// GenerationError is any external-call failure or missing expected field in a
// generation response. The raw message is surfaced to the user.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// InvalidRefinementError is returned when refinement is attempted on a record
// whose format is not notes, or toward a target that is not flashcards/quiz.
type InvalidRefinementError struct {
	SourceFormat models.Format
	TargetFormat models.Format
}

func (e *InvalidRefinementError) Error() string {
	return fmt.Sprintf("cannot refine a %s record into %s", e.SourceFormat, e.TargetFormat)
}

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }
