package services

import (
	"context"
	"strings"
)

const (
	SourceText = "text"
	SourceURL  = "url"
	SourceFile = "file"
)

// InputRequest is one of raw text, a URL, or an uploaded file.
type InputRequest struct {
	SourceType string
	Text       string
	URL        string
	Filename   string
	FileData   []byte
}

type urlSummarizer interface {
	SummarizeURL(ctx context.Context, url string) (string, error)
}

type transcriptFetcher interface {
	GetTranscript(videoID string) (string, error)
	GetTitle(videoID string) string
}

type fileExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

// InputService normalizes the three input modes into (rawText, label).
type InputService struct {
	summarizer urlSummarizer
	youtube    transcriptFetcher
	files      fileExtractor
}

func NewInputService(summarizer urlSummarizer, youtube transcriptFetcher, files fileExtractor) *InputService {
	return &InputService{
		summarizer: summarizer,
		youtube:    youtube,
		files:      files,
	}
}

// Acquire resolves the request into a single text blob plus a short label
// describing where it came from.
func (s *InputService) Acquire(ctx context.Context, req InputRequest) (string, string, error) {
	switch req.SourceType {
	case SourceText:
		text := strings.TrimSpace(req.Text)
		if text == "" {
			return "", "", &ValidationError{Message: "Please enter some text."}
		}
		return req.Text, truncateLabel(req.Text), nil

	case SourceURL:
		url := strings.TrimSpace(req.URL)
		if url == "" {
			return "", "", &ValidationError{Message: "Please enter a URL."}
		}

		// YouTube links are resolved via their transcript; everything else
		// goes through search-grounded summarization.
		if videoID, ok := MatchVideoID(url); ok && s.youtube != nil {
			transcript, err := s.youtube.GetTranscript(videoID)
			if err == nil {
				label := url
				if title := s.youtube.GetTitle(videoID); title != "" {
					label = title
				}
				return transcript, label, nil
			}
		}

		text, err := s.summarizer.SummarizeURL(ctx, url)
		if err != nil {
			return "", "", err
		}
		return text, url, nil

	case SourceFile:
		if req.Filename == "" || len(req.FileData) == 0 {
			return "", "", &ValidationError{Message: "Please upload a file."}
		}
		text, err := s.files.ExtractText(req.Filename, req.FileData)
		if err != nil {
			return "", "", err
		}
		return text, req.Filename, nil
	}

	return "", "", &ValidationError{Message: "Unknown input mode: " + req.SourceType}
}

// truncateLabel shortens raw text input to its first 30 characters.
func truncateLabel(text string) string {
	runes := []rune(text)
	if len(runes) <= 30 {
		return text + "..."
	}
	return string(runes[:30]) + "..."
}
