package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"studyflow-backend/internal/models"
)

type stubAI struct {
	notesTitle    string
	notesBody     string
	cards         []models.Flashcard
	questions     []models.QuizQuestion
	videoPrompt   string
	err           error
	lastCount     int
	lastContent   string
	statusUpdates []models.WSMessage
}

func (s *stubAI) GenerateNotes(ctx context.Context, content string, style models.Style) (string, string, error) {
	s.lastContent = content
	return s.notesTitle, s.notesBody, s.err
}

func (s *stubAI) GenerateFlashcards(ctx context.Context, content string, style models.Style, count int) (string, []models.Flashcard, error) {
	s.lastContent = content
	s.lastCount = count
	return "Deck", s.cards, s.err
}

func (s *stubAI) GenerateQuiz(ctx context.Context, content string, style models.Style, count int) (string, []models.QuizQuestion, error) {
	s.lastContent = content
	s.lastCount = count
	return "Quiz", s.questions, s.err
}

func (s *stubAI) DeriveVideoPrompt(ctx context.Context, content string) (string, error) {
	return s.videoPrompt, s.err
}

func (s *stubAI) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	s.statusUpdates = append(s.statusUpdates, msg)
}

type stubVideo struct {
	uri        string
	err        error
	lastPrompt string
	lastKey    string
}

func (s *stubVideo) Generate(ctx context.Context, prompt, apiKey string, onStatus func(step string)) (string, error) {
	s.lastPrompt = prompt
	s.lastKey = apiKey
	if onStatus != nil {
		onStatus("rendering")
	}
	return s.uri, s.err
}

type stubKeys struct {
	selected string
	offered  string
}

func (s *stubKeys) SelectedKey(ctx context.Context, userID uuid.UUID) (string, bool) {
	return s.selected, s.selected != ""
}

func (s *stubKeys) OfferSelection(ctx context.Context, userID uuid.UUID) (string, bool) {
	return s.offered, s.offered != ""
}

func TestGenerator_Notes(t *testing.T) {
	ai := &stubAI{notesTitle: "Photosynthesis", notesBody: "# Photosynthesis\nDetails"}
	g := NewGenerator(ai, &stubVideo{}, &stubKeys{})

	rec, err := g.Generate(context.Background(), uuid.New(), "raw text", "label", models.StyleSimple, models.FormatNotes, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if rec.Title != "Photosynthesis" {
		t.Errorf("Expected title from notes, got %q", rec.Title)
	}
	if rec.Notes == nil || *rec.Notes != "# Photosynthesis\nDetails" {
		t.Error("Expected notes payload populated")
	}
	if rec.Format != models.FormatNotes {
		t.Errorf("Unexpected format %q", rec.Format)
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Generated record failed validation: %v", err)
	}
}

func TestGenerator_CountDefaults(t *testing.T) {
	tests := []struct {
		format    models.Format
		count     int
		wantCount int
	}{
		{models.FormatFlashcards, 0, DefaultFlashcardCount},
		{models.FormatFlashcards, 7, 7},
		{models.FormatQuiz, 0, DefaultQuizCount},
		{models.FormatQuiz, -3, DefaultQuizCount},
		{models.FormatQuiz, 12, 12},
	}

	for _, tc := range tests {
		ai := &stubAI{
			cards:     []models.Flashcard{{Front: "Q", Back: "A"}},
			questions: []models.QuizQuestion{{Question: "Q?"}},
		}
		g := NewGenerator(ai, &stubVideo{}, &stubKeys{})

		if _, err := g.Generate(context.Background(), uuid.New(), "raw", "label", models.StyleSimple, tc.format, tc.count); err != nil {
			t.Fatalf("Generate(%s, %d) failed: %v", tc.format, tc.count, err)
		}
		if ai.lastCount != tc.wantCount {
			t.Errorf("Generate(%s, %d): count = %d, want %d", tc.format, tc.count, ai.lastCount, tc.wantCount)
		}
	}
}

func TestGenerator_GenerationErrorPassesThrough(t *testing.T) {
	genErr := &GenerationError{Message: "model unavailable"}
	ai := &stubAI{err: genErr}
	g := NewGenerator(ai, &stubVideo{}, &stubKeys{})

	_, err := g.Generate(context.Background(), uuid.New(), "raw", "label", models.StyleSimple, models.FormatNotes, 0)
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("Expected GenerationError, got %v", err)
	}
}

func TestGenerator_VideoUsesSelectedKey(t *testing.T) {
	ai := &stubAI{videoPrompt: "A lesson about cells"}
	video := &stubVideo{uri: "https://example.com/v.mp4&key=user-key"}
	g := NewGenerator(ai, video, &stubKeys{selected: "user-key"})

	rec, err := g.Generate(context.Background(), uuid.New(), "raw", "label", models.StyleSimple, models.FormatVideo, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if rec.Title != "AI Generated Video Lesson" {
		t.Errorf("Unexpected video title %q", rec.Title)
	}
	if rec.VideoURI == nil || *rec.VideoURI == "" {
		t.Fatal("Expected video URI populated")
	}
	if video.lastKey != "user-key" {
		t.Errorf("Expected user key to reach the video client, got %q", video.lastKey)
	}
	if !strings.HasSuffix(video.lastPrompt, "Cinematic, high definition, 4k. Text overlays with facts.") {
		t.Errorf("Expected style suffix on video prompt, got %q", video.lastPrompt)
	}
	if len(ai.statusUpdates) == 0 {
		t.Error("Expected status updates to be published during rendering")
	}
}

func TestGenerator_VideoFallsBackToOfferedKey(t *testing.T) {
	ai := &stubAI{videoPrompt: "prompt"}
	video := &stubVideo{uri: "https://example.com/v.mp4"}
	g := NewGenerator(ai, video, &stubKeys{offered: "shared-key"})

	if _, err := g.Generate(context.Background(), uuid.New(), "raw", "label", models.StyleSimple, models.FormatVideo, 0); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if video.lastKey != "shared-key" {
		t.Errorf("Expected shared key, got %q", video.lastKey)
	}
}

func TestGenerator_VideoDeclinedKeyAborts(t *testing.T) {
	g := NewGenerator(&stubAI{}, &stubVideo{}, &stubKeys{})

	_, err := g.Generate(context.Background(), uuid.New(), "raw", "label", models.StyleSimple, models.FormatVideo, 0)
	if !errors.Is(err, ErrKeySelectionDeclined) {
		t.Fatalf("Expected ErrKeySelectionDeclined, got %v", err)
	}
}

func TestGenerator_RefineGuards(t *testing.T) {
	g := NewGenerator(&stubAI{}, &stubVideo{}, &stubKeys{})

	quizRec := models.NewContentRecord("Quiz", "label", models.FormatQuiz, models.StyleSimple)
	quizRec.Quiz = []models.QuizQuestion{{Question: "Q?"}}

	_, err := g.Refine(context.Background(), uuid.New(), quizRec, models.FormatFlashcards, 0)
	var ire *InvalidRefinementError
	if !errors.As(err, &ire) {
		t.Fatalf("Expected InvalidRefinementError for non-notes source, got %v", err)
	}

	notes := "# Notes"
	notesRec := models.NewContentRecord("Biology Notes", "label", models.FormatNotes, models.StyleSimple)
	notesRec.Notes = &notes

	_, err = g.Refine(context.Background(), uuid.New(), notesRec, models.FormatVideo, 0)
	if !errors.As(err, &ire) {
		t.Fatalf("Expected InvalidRefinementError for video target, got %v", err)
	}
}

func TestGenerator_RefineQuiz(t *testing.T) {
	ai := &stubAI{questions: []models.QuizQuestion{
		{Question: "Q1?"}, {Question: "Q2?"}, {Question: "Q3?"}, {Question: "Q4?"}, {Question: "Q5?"},
	}}
	g := NewGenerator(ai, &stubVideo{}, &stubKeys{})

	notes := "# Cell Biology\nMitochondria."
	source := models.NewContentRecord("Cell Biology", "label", models.FormatNotes, models.StyleAdvanced)
	source.Notes = &notes

	rec, err := g.Refine(context.Background(), uuid.New(), source, models.FormatQuiz, 0)
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if rec.Title != "Cell Biology (Quiz)" {
		t.Errorf("Expected derived title, got %q", rec.Title)
	}
	if len(rec.Quiz) != 5 {
		t.Errorf("Expected 5 questions, got %d", len(rec.Quiz))
	}
	if rec.Style != models.StyleAdvanced {
		t.Errorf("Expected style inherited from source, got %q", rec.Style)
	}
	if ai.lastContent != notes {
		t.Error("Expected refinement to read from the source notes")
	}
	if ai.lastCount != DefaultQuizCount {
		t.Errorf("Expected default quiz count, got %d", ai.lastCount)
	}

	// Source stays untouched.
	if source.Title != "Cell Biology" || source.Quiz != nil {
		t.Error("Expected source record to be unmodified")
	}
}

func TestGenerator_RefineFlashcardsTitle(t *testing.T) {
	ai := &stubAI{cards: []models.Flashcard{{Front: "Q", Back: "A"}}}
	g := NewGenerator(ai, &stubVideo{}, &stubKeys{})

	notes := "# Chemistry"
	source := models.NewContentRecord("Chemistry", "label", models.FormatNotes, models.StyleSimple)
	source.Notes = &notes

	rec, err := g.Refine(context.Background(), uuid.New(), source, models.FormatFlashcards, 3)
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if rec.Title != "Chemistry (Cards)" {
		t.Errorf("Expected derived title, got %q", rec.Title)
	}
	if ai.lastCount != 3 {
		t.Errorf("Expected explicit count 3, got %d", ai.lastCount)
	}
}
