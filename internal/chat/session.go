package chat

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyflow-backend/internal/models"
)

// ErrBusy is returned when a message arrives while the previous turn is
// still in flight.
var ErrBusy = errors.New("chat session is busy")

const (
	welcomeMessage   = "Hi! I'm your AI Tutor. I've read your notes. Ask me anything, or ask me to generate diagrams!"
	thinkingFallback = "I'm having trouble thinking right now. Try again?"
	turnFailure      = "Sorry, I encountered an error. Please try again."
	imageFailure     = "Sorry, I couldn't generate that image right now."
	toolAckResult    = "Image generated successfully and displayed to user."
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingResponse
	stateToolExecuting
)

// Session holds one tutoring conversation grounded in a single study
// record. The transcript is kept in memory; history persistence only covers
// the generated study material, not chats.
type Session struct {
	mu          sync.Mutex
	state       sessionState
	client      Client
	conv        Conversation
	contextText string
	messages    []models.ChatMessage
}

func NewSession(ctx context.Context, client Client, contextText string) (*Session, error) {
	conv, err := client.StartConversation(ctx, contextText)
	if err != nil {
		return nil, err
	}

	s := &Session{
		client:      client,
		conv:        conv,
		contextText: contextText,
	}
	s.appendModel(welcomeMessage, nil)
	return s, nil
}

// ContextText reports what material this session was grounded on, so the
// manager can detect when a record's content has changed underneath it.
func (s *Session) ContextText() string {
	return s.contextText
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// HandleMessage runs one full turn: user text in, model reply (possibly via
// the image tool) appended. Returns the updated transcript.
func (s *Session) HandleMessage(ctx context.Context, text string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	if s.state != stateIdle {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = stateAwaitingResponse
	s.append(models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "user",
		Text:      text,
		Timestamp: time.Now(),
	})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = stateIdle
		s.mu.Unlock()
	}()

	reply, err := s.conv.Send(ctx, text)
	if err != nil {
		log.Printf("Chat turn failed: %v", err)
		s.appendLocked(turnFailure, nil)
		return s.Messages(), nil
	}

	switch reply.Kind {
	case ToolInvocation:
		s.handleToolCall(ctx, reply)
	default:
		if reply.Text == "" {
			s.appendLocked(thinkingFallback, nil)
		} else {
			s.appendLocked(reply.Text, nil)
		}
	}

	return s.Messages(), nil
}

func (s *Session) handleToolCall(ctx context.Context, reply ModelReply) {
	s.mu.Lock()
	s.state = stateToolExecuting
	s.mu.Unlock()

	prompt, _ := reply.ToolArgs["prompt"].(string)

	dataURI, err := s.client.GenerateImage(ctx, prompt)
	if err != nil {
		log.Printf("Image tool call failed: %v", err)
		s.appendLocked(imageFailure, nil)
		return
	}

	s.appendLocked("I've generated an image for: "+prompt, &dataURI)

	// Let the model know the tool succeeded; any follow-up commentary it
	// produces joins the transcript.
	ack, err := s.conv.SendToolResult(ctx, reply.ToolName, toolAckResult)
	if err != nil {
		log.Printf("Tool acknowledgement failed: %v", err)
		return
	}
	if ack.Kind == PlainReply && ack.Text != "" {
		s.appendLocked(ack.Text, nil)
	}
}

func (s *Session) append(msg models.ChatMessage) {
	s.messages = append(s.messages, msg)
}

func (s *Session) appendLocked(text string, image *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendModel(text, image)
}

func (s *Session) appendModel(text string, image *string) {
	s.messages = append(s.messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "model",
		Text:      text,
		Image:     image,
		Timestamp: time.Now(),
	})
}
