package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	chatModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"

	// Cap on how much of the study material is embedded in the system
	// instruction. Longer notes are truncated, not rejected.
	contextCharLimit = 20000
)

const tutorInstruction = `You are a friendly and helpful AI tutor. The user has just studied the following material. Answer their questions based on it. Keep answers concise and encouraging.

If the user asks for a diagram, illustration, or image of a concept, use the generateImage tool instead of describing it in words.

STUDY MATERIAL:
%s`

// GeminiClient implements Client on top of the Gemini API. Each client owns
// its own connection so conversations can run under per-user API keys.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) StartConversation(ctx context.Context, contextText string) (Conversation, error) {
	if len(contextText) > contextCharLimit {
		contextText = contextText[:contextCharLimit]
	}

	model := c.client.GenerativeModel(chatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(tutorInstruction, contextText))},
	}
	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "generateImage",
					Description: "Generates an educational image or diagram for the user and displays it in the chat.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"prompt": {
								Type:        genai.TypeString,
								Description: "A detailed visual description of the image to generate.",
							},
						},
						Required: []string{"prompt"},
					},
				},
			},
		},
	}

	return &geminiConversation{session: model.StartChat()}, nil
}

// GenerateImage returns the image as a data URI so the frontend can render
// it inline without a separate fetch.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(imageModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				mime := blob.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob.Data), nil
			}
		}
	}

	return "", fmt.Errorf("image generation returned no image data")
}

type geminiConversation struct {
	session *genai.ChatSession
}

func (g *geminiConversation) Send(ctx context.Context, text string) (ModelReply, error) {
	resp, err := g.session.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return ModelReply{}, fmt.Errorf("chat message failed: %w", err)
	}
	return parseReply(resp), nil
}

func (g *geminiConversation) SendToolResult(ctx context.Context, toolName, result string) (ModelReply, error) {
	resp, err := g.session.SendMessage(ctx, genai.FunctionResponse{
		Name:     toolName,
		Response: map[string]any{"result": result},
	})
	if err != nil {
		return ModelReply{}, fmt.Errorf("tool result delivery failed: %w", err)
	}
	return parseReply(resp), nil
}

// parseReply prefers a function call over text when the model returns both.
func parseReply(resp *genai.GenerateContentResponse) ModelReply {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch p := part.(type) {
			case genai.FunctionCall:
				return ModelReply{Kind: ToolInvocation, ToolName: p.Name, ToolArgs: p.Args}
			case genai.Text:
				sb.WriteString(string(p))
			}
		}
	}
	return ModelReply{Kind: PlainReply, Text: strings.TrimSpace(sb.String())}
}
