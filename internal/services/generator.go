package services

import (
	"context"

	"github.com/google/uuid"

	"studyflow-backend/internal/models"
)

const (
	DefaultFlashcardCount = 10
	DefaultQuizCount      = 5

	videoTitle = "AI Generated Video Lesson"
)

type aiClient interface {
	GenerateNotes(ctx context.Context, content string, style models.Style) (string, string, error)
	GenerateFlashcards(ctx context.Context, content string, style models.Style, count int) (string, []models.Flashcard, error)
	GenerateQuiz(ctx context.Context, content string, style models.Style, count int) (string, []models.QuizQuestion, error)
	DeriveVideoPrompt(ctx context.Context, content string) (string, error)
	PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage)
}

type videoClient interface {
	Generate(ctx context.Context, prompt, apiKey string, onStatus func(step string)) (string, error)
}

// Generator dispatches normalized text to the right generation path and maps
// the response into a ContentRecord. It never touches history: the caller
// appends the returned record.
type Generator struct {
	ai    aiClient
	video videoClient
	keys  KeySelector
}

func NewGenerator(ai aiClient, video videoClient, keys KeySelector) *Generator {
	return &Generator{ai: ai, video: video, keys: keys}
}

// Generate runs one generation. On any failure no record is produced; the
// video path may also abort with ErrKeySelectionDeclined, which callers treat
// as a silent cancel.
func (g *Generator) Generate(ctx context.Context, userID uuid.UUID, rawText, label string, style models.Style, format models.Format, count int) (*models.ContentRecord, error) {
	rec := models.NewContentRecord("", label, format, style)

	switch format {
	case models.FormatNotes:
		title, markdown, err := g.ai.GenerateNotes(ctx, rawText, style)
		if err != nil {
			return nil, err
		}
		rec.Title = title
		rec.Notes = &markdown

	case models.FormatFlashcards:
		if count <= 0 {
			count = DefaultFlashcardCount
		}
		title, cards, err := g.ai.GenerateFlashcards(ctx, rawText, style, count)
		if err != nil {
			return nil, err
		}
		rec.Title = title
		rec.Flashcards = cards

	case models.FormatQuiz:
		if count <= 0 {
			count = DefaultQuizCount
		}
		title, questions, err := g.ai.GenerateQuiz(ctx, rawText, style, count)
		if err != nil {
			return nil, err
		}
		rec.Title = title
		rec.Quiz = questions

	case models.FormatVideo:
		uri, err := g.generateVideo(ctx, userID, rec.ID, rawText)
		if err != nil {
			return nil, err
		}
		rec.Title = videoTitle
		rec.VideoURI = &uri

	default:
		return nil, &ValidationError{Message: "unknown output format: " + string(format)}
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *Generator) generateVideo(ctx context.Context, userID, recordID uuid.UUID, rawText string) (string, error) {
	// Video is the one costly path: require a selected API key first. A
	// declined selection aborts without surfacing an error.
	apiKey, ok := g.keys.SelectedKey(ctx, userID)
	if !ok {
		apiKey, ok = g.keys.OfferSelection(ctx, userID)
		if !ok {
			return "", ErrKeySelectionDeclined
		}
	}

	prompt, err := g.ai.DeriveVideoPrompt(ctx, rawText)
	if err != nil {
		return "", err
	}
	finalPrompt := prompt + ". Cinematic, high definition, 4k. Text overlays with facts."

	onStatus := func(step string) {
		g.ai.PublishUpdate(ctx, userID, models.WSMessage{
			Type:    "status_update",
			Payload: models.StatusUpdate{RecordID: recordID, Step: step},
		})
	}

	return g.video.Generate(ctx, finalPrompt, apiKey, onStatus)
}

// Refine derives a flashcards or quiz record from an existing notes record.
// The source record is left unmodified.
func (g *Generator) Refine(ctx context.Context, userID uuid.UUID, source *models.ContentRecord, target models.Format, count int) (*models.ContentRecord, error) {
	if source.Format != models.FormatNotes || source.Notes == nil {
		return nil, &InvalidRefinementError{SourceFormat: source.Format, TargetFormat: target}
	}
	if target != models.FormatFlashcards && target != models.FormatQuiz {
		return nil, &InvalidRefinementError{SourceFormat: source.Format, TargetFormat: target}
	}

	rec := models.NewContentRecord("", source.SourceLabel, target, source.Style)

	switch target {
	case models.FormatFlashcards:
		if count <= 0 {
			count = DefaultFlashcardCount
		}
		_, cards, err := g.ai.GenerateFlashcards(ctx, *source.Notes, source.Style, count)
		if err != nil {
			return nil, err
		}
		rec.Title = source.Title + " (Cards)"
		rec.Flashcards = cards

	case models.FormatQuiz:
		if count <= 0 {
			count = DefaultQuizCount
		}
		_, questions, err := g.ai.GenerateQuiz(ctx, *source.Notes, source.Style, count)
		if err != nil {
			return nil, err
		}
		rec.Title = source.Title + " (Quiz)"
		rec.Quiz = questions
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}
