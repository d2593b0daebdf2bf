package models

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestContentRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ContentRecord)
		format  Format
		wantErr bool
	}{
		{
			name:   "notes with notes payload",
			format: FormatNotes,
			mutate: func(r *ContentRecord) { r.Notes = strPtr("# Title\nBody") },
		},
		{
			name:   "flashcards with cards payload",
			format: FormatFlashcards,
			mutate: func(r *ContentRecord) { r.Flashcards = []Flashcard{{Front: "Q", Back: "A"}} },
		},
		{
			name:   "quiz with questions payload",
			format: FormatQuiz,
			mutate: func(r *ContentRecord) { r.Quiz = []QuizQuestion{{Question: "Q?"}} },
		},
		{
			name:   "video with uri payload",
			format: FormatVideo,
			mutate: func(r *ContentRecord) { r.VideoURI = strPtr("https://example.com/video?x=1") },
		},
		{
			name:    "no payload",
			format:  FormatNotes,
			mutate:  func(r *ContentRecord) {},
			wantErr: true,
		},
		{
			name:   "two payloads",
			format: FormatNotes,
			mutate: func(r *ContentRecord) {
				r.Notes = strPtr("# Title")
				r.Quiz = []QuizQuestion{{Question: "Q?"}}
			},
			wantErr: true,
		},
		{
			name:    "payload mismatching format",
			format:  FormatQuiz,
			mutate:  func(r *ContentRecord) { r.Notes = strPtr("# Title") },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := NewContentRecord("Title", "label", tc.format, StyleSimple)
			tc.mutate(rec)

			err := rec.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"notes", FormatNotes, false},
		{"  Flashcards ", FormatFlashcards, false},
		{"QUIZ", FormatQuiz, false},
		{"video", FormatVideo, false},
		{"podcast", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStyleLabel(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{StyleSimple, "Simple"},
		{StyleAdvanced, "Advanced"},
		{StyleExam, "Exam Focused"},
		{StyleCreative, "Creative"},
	}

	for _, tc := range tests {
		if got := tc.style.Label(); got != tc.want {
			t.Errorf("Label(%q) = %q, want %q", tc.style, got, tc.want)
		}
	}
}

func TestContextText(t *testing.T) {
	notes := NewContentRecord("Notes", "label", FormatNotes, StyleSimple)
	notes.Notes = strPtr("# Photosynthesis\nPlants make sugar.")
	if got := notes.ContextText(); got != "# Photosynthesis\nPlants make sugar." {
		t.Errorf("Notes context = %q", got)
	}

	cards := NewContentRecord("Deck", "label", FormatFlashcards, StyleSimple)
	cards.Flashcards = []Flashcard{{Front: "What is ATP?", Back: "Energy currency"}}
	got := cards.ContextText()
	if !strings.Contains(got, "Q: What is ATP?") || !strings.Contains(got, "A: Energy currency") {
		t.Errorf("Flashcard context missing card text: %q", got)
	}

	quiz := NewContentRecord("Quiz", "label", FormatQuiz, StyleSimple)
	quiz.Quiz = []QuizQuestion{{Question: "2+2?", CorrectOption: "4", Explanation: "Basic arithmetic"}}
	got = quiz.ContextText()
	for _, want := range []string{"2+2?", "Answer: 4", "Basic arithmetic"} {
		if !strings.Contains(got, want) {
			t.Errorf("Quiz context missing %q: %q", want, got)
		}
	}

	video := NewContentRecord("AI Generated Video Lesson", "My notes...", FormatVideo, StyleSimple)
	video.VideoURI = strPtr("https://example.com/v")
	got = video.ContextText()
	if !strings.Contains(got, "AI Generated Video Lesson") || !strings.Contains(got, "My notes...") {
		t.Errorf("Video context = %q", got)
	}
}
