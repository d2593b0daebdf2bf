package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"studyflow-backend/internal/models"
)

const (
	textModel = "gemini-2.5-flash"

	// Grounding text fed to the video prompt derivation is capped so the
	// derivation call stays cheap.
	videoPromptSourceLimit = 5000
)

type GeminiService struct {
	client   *genai.Client
	redis    *redis.Client
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int, redisClient *redis.Client) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		redis:    redisClient,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// PublishUpdate sends a WebSocket update via Redis pub/sub
func (s *GeminiService) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	if s.redis == nil {
		return
	}
	data, _ := json.Marshal(msg)
	s.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data))
}

var headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// GenerateNotes produces markdown study notes. The title is lifted from the
// first heading line; without one it falls back to a fixed placeholder.
func (s *GeminiService) GenerateNotes(ctx context.Context, content string, style models.Style) (string, string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", "", err
	}
	defer s.releaseRate()

	model := s.client.GenerativeModel(textModel)
	model.SetTemperature(0.3)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(fmt.Sprintf(`You are StudyFlow, an expert study companion.
Your goal is to create clear, structured study notes.
Style: %s.
Use clean Markdown formatting (headers, bullet points, bold text).
Always include a concise Title at the very top.
Focus on extracting key concepts, definitions, and relationships.
Do not use generic intros/outros.`, style.Label()))}}

	resp, err := model.GenerateContent(ctx, genai.Text(content))
	if err != nil {
		return "", "", &GenerationError{Message: "Gemini API error", Err: err}
	}

	text := extractText(resp)
	if text == "" {
		text = "# Generated Notes\nNo content generated."
	}

	return titleFromMarkdown(text), text, nil
}

// titleFromMarkdown lifts the first markdown heading as the record title,
// falling back to a fixed placeholder when the notes carry no heading.
func titleFromMarkdown(text string) string {
	if m := headingPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Study Session"
}

// GenerateFlashcards asks for a schema-constrained JSON deck. The response
// shape (title + cards) is trusted as returned.
func (s *GeminiService) GenerateFlashcards(ctx context.Context, content string, style models.Style, count int) (string, []models.Flashcard, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", nil, err
	}
	defer s.releaseRate()

	model := s.client.GenerativeModel(textModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString, Description: "A short, relevant title for this flashcard deck"},
			"cards": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"front": {Type: genai.TypeString, Description: "The question or term on the front of the card"},
						"back":  {Type: genai.TypeString, Description: "The answer or definition on the back"},
					},
					Required: []string{"front", "back"},
				},
			},
		},
		Required: []string{"title", "cards"},
	}

	prompt := fmt.Sprintf("Create exactly %d study flashcards from the following content. Style: %s.\n\nContent:\n%s",
		count, style.Label(), content)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", nil, &GenerationError{Message: "Gemini API error", Err: err}
	}

	var deck struct {
		Title string             `json:"title"`
		Cards []models.Flashcard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(extractText(resp))), &deck); err != nil {
		return "", nil, &GenerationError{Message: "malformed flashcard response", Err: err}
	}

	return deck.Title, deck.Cards, nil
}

// GenerateQuiz asks for a schema-constrained multiple-choice quiz.
func (s *GeminiService) GenerateQuiz(ctx context.Context, content string, style models.Style, count int) (string, []models.QuizQuestion, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", nil, err
	}
	defer s.releaseRate()

	model := s.client.GenerativeModel(textModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString, Description: "Title of the quiz"},
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":          {Type: genai.TypeString},
						"question":    {Type: genai.TypeString},
						"options":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"answer":      {Type: genai.TypeString, Description: "The correct option string text"},
						"explanation": {Type: genai.TypeString, Description: "Why this answer is correct"},
					},
					Required: []string{"id", "question", "options", "answer", "explanation"},
				},
			},
		},
		Required: []string{"title", "questions"},
	}

	prompt := fmt.Sprintf("Generate a multiple-choice practice quiz with exactly %d questions based on the following material. Style: %s. Ensure options are plausible distractors.\n\nContent:\n%s",
		count, style.Label(), content)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", nil, &GenerationError{Message: "Gemini API error", Err: err}
	}

	var quiz struct {
		Title     string `json:"title"`
		Questions []struct {
			ID          string   `json:"id"`
			Question    string   `json:"question"`
			Options     []string `json:"options"`
			Answer      string   `json:"answer"`
			Explanation string   `json:"explanation"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(extractText(resp))), &quiz); err != nil {
		return "", nil, &GenerationError{Message: "malformed quiz response", Err: err}
	}

	questions := make([]models.QuizQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = models.QuizQuestion{
			ID:            q.ID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectOption: q.Answer,
			Explanation:   q.Explanation,
		}
	}

	return quiz.Title, questions, nil
}

// SummarizeURL resolves URL input into text via search-grounded generation.
// The client never fetches the page itself.
func (s *GeminiService) SummarizeURL(ctx context.Context, url string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	model := s.client.GenerativeModel(textModel)
	model.Tools = []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}

	prompt := fmt.Sprintf("Summarize the key educational content found at this URL: %s. If it is a video, explain the main points covered.", url)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Message: "Gemini API error", Err: err}
	}

	text := extractText(resp)
	if text == "" {
		text = "Could not summarize URL content."
	}
	return text, nil
}

// DeriveVideoPrompt converts source material into a cinematic visual prompt
// for the video model.
func (s *GeminiService) DeriveVideoPrompt(ctx context.Context, content string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	if len(content) > videoPromptSourceLimit {
		content = content[:videoPromptSourceLimit]
	}

	prompt := fmt.Sprintf(`Convert the following educational content into a detailed prompt for an AI Video Generation model.
The user wants an educational video.
If the content is about history, describe a cinematic historical recreation of battles or key events.
Explicitly ask for "Text overlays showing key facts" and "Cinematic style" in the prompt.
Keep the prompt under 200 words.

Content: %s`, content)

	model := s.client.GenerativeModel(textModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Message: "Gemini API error", Err: err}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		snippet := content
		if len(snippet) > 50 {
			snippet = snippet[:50]
		}
		text = "Educational video about: " + snippet
	}
	return text, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
