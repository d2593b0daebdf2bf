package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubSummarizer struct {
	text string
	err  error
	url  string
}

func (s *stubSummarizer) SummarizeURL(ctx context.Context, url string) (string, error) {
	s.url = url
	return s.text, s.err
}

type stubYouTube struct {
	transcript string
	title      string
	err        error
}

func (s *stubYouTube) GetTranscript(videoID string) (string, error) { return s.transcript, s.err }
func (s *stubYouTube) GetTitle(videoID string) string               { return s.title }

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(filename string, data []byte) (string, error) {
	return s.text, s.err
}

func TestInputService_TextSource(t *testing.T) {
	svc := NewInputService(&stubSummarizer{}, &stubYouTube{}, &stubExtractor{})

	longText := strings.Repeat("a", 50)
	raw, label, err := svc.Acquire(context.Background(), InputRequest{SourceType: SourceText, Text: longText})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if raw != longText {
		t.Error("Expected raw text passed through unmodified")
	}
	if label != strings.Repeat("a", 30)+"..." {
		t.Errorf("Expected 30-char label, got %q", label)
	}
}

func TestInputService_EmptyText(t *testing.T) {
	svc := NewInputService(&stubSummarizer{}, &stubYouTube{}, &stubExtractor{})

	_, _, err := svc.Acquire(context.Background(), InputRequest{SourceType: SourceText, Text: "   \n  "})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if ve.Message != "Please enter some text." {
		t.Errorf("Unexpected message %q", ve.Message)
	}
}

func TestInputService_URLSource(t *testing.T) {
	sum := &stubSummarizer{text: "Summary of the article."}
	svc := NewInputService(sum, &stubYouTube{}, &stubExtractor{})

	raw, label, err := svc.Acquire(context.Background(), InputRequest{SourceType: SourceURL, URL: "https://example.com/article"})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if raw != "Summary of the article." {
		t.Errorf("Expected summarized text, got %q", raw)
	}
	if label != "https://example.com/article" {
		t.Errorf("Expected URL as label, got %q", label)
	}
	if sum.url != "https://example.com/article" {
		t.Errorf("Summarizer received %q", sum.url)
	}
}

func TestInputService_EmptyURL(t *testing.T) {
	svc := NewInputService(&stubSummarizer{}, &stubYouTube{}, &stubExtractor{})

	_, _, err := svc.Acquire(context.Background(), InputRequest{SourceType: SourceURL, URL: ""})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestInputService_YouTubeTranscript(t *testing.T) {
	yt := &stubYouTube{transcript: "Lecture transcript.", title: "Intro to Go"}
	svc := NewInputService(&stubSummarizer{}, yt, &stubExtractor{})

	raw, label, err := svc.Acquire(context.Background(), InputRequest{
		SourceType: SourceURL,
		URL:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if raw != "Lecture transcript." {
		t.Errorf("Expected transcript, got %q", raw)
	}
	if label != "Intro to Go" {
		t.Errorf("Expected video title as label, got %q", label)
	}
}

func TestInputService_YouTubeFallsBackToSummarizer(t *testing.T) {
	yt := &stubYouTube{err: errors.New("no captions")}
	sum := &stubSummarizer{text: "Summarized instead."}
	svc := NewInputService(sum, yt, &stubExtractor{})

	raw, _, err := svc.Acquire(context.Background(), InputRequest{
		SourceType: SourceURL,
		URL:        "https://youtu.be/dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if raw != "Summarized instead." {
		t.Errorf("Expected summarizer fallback, got %q", raw)
	}
}

func TestInputService_FileSource(t *testing.T) {
	svc := NewInputService(&stubSummarizer{}, &stubYouTube{}, &stubExtractor{text: "Extracted text."})

	raw, label, err := svc.Acquire(context.Background(), InputRequest{
		SourceType: SourceFile,
		Filename:   "lecture.pdf",
		FileData:   []byte("%PDF-"),
	})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if raw != "Extracted text." {
		t.Errorf("Expected extracted text, got %q", raw)
	}
	if label != "lecture.pdf" {
		t.Errorf("Expected filename as label, got %q", label)
	}
}

func TestInputService_MissingFile(t *testing.T) {
	svc := NewInputService(&stubSummarizer{}, &stubYouTube{}, &stubExtractor{})

	_, _, err := svc.Acquire(context.Background(), InputRequest{SourceType: SourceFile})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestInputService_UnknownMode(t *testing.T) {
	svc := NewInputService(&stubSummarizer{}, &stubYouTube{}, &stubExtractor{})

	_, _, err := svc.Acquire(context.Background(), InputRequest{SourceType: "carrier-pigeon"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestMatchVideoID(t *testing.T) {
	tests := []struct {
		url  string
		id   string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"not a url", "", false},
	}

	for _, tc := range tests {
		id, ok := MatchVideoID(tc.url)
		if ok != tc.want {
			t.Errorf("MatchVideoID(%q) matched = %v, want %v", tc.url, ok, tc.want)
			continue
		}
		if ok && id != tc.id {
			t.Errorf("MatchVideoID(%q) = %q, want %q", tc.url, id, tc.id)
		}
	}
}
