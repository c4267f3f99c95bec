package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ishaan2692/matchify/internal/llm"
	"github.com/ishaan2692/matchify/internal/model"
	"github.com/ishaan2692/matchify/internal/session"
)

var ErrEmptyMessage = errors.New("message is required")

// FallbackReply is shown when generation fails mid-chat. The user's turn
// stays in the history; no bot turn is recorded for a failed reply.
const FallbackReply = "Sorry, I couldn't process that request."

// ChatReply is the service-level DTO for one chat exchange.
type ChatReply struct {
	Reply   string `json:"reply"`
	Warning string `json:"warning,omitempty"`
}

// ChatService drives the session-scoped assistant. The whole history is
// re-rendered into the prompt on every send, so the model needs no state of
// its own.
type ChatService interface {
	// Send appends the user's message to the history, asks the model for a
	// reply and appends it as a bot turn. On generation failure the reply is
	// FallbackReply with a warning, and the error is absorbed.
	Send(ctx context.Context, sess *session.Session, message string) (*ChatReply, error)

	// History returns the session's recorded turns, oldest first.
	History(sess *session.Session) []model.ConversationTurn
}

type chatService struct {
	generator llm.Generator
}

// NewChatService constructs a new ChatService.
func NewChatService(generator llm.Generator) ChatService {
	return &chatService{generator: generator}
}

func (s *chatService) Send(ctx context.Context, sess *session.Session, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	conv := sess.Conversation()
	conv.AppendUserTurn(message)

	prompt := conv.RenderContext() + "\nBot:"
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		reply := &ChatReply{Reply: FallbackReply, Warning: "generation failed"}
		if errors.Is(err, llm.ErrNotConfigured) {
			reply.Warning = "generation unavailable: missing API key"
		}
		return reply, nil
	}

	answer = strings.TrimSpace(answer)
	conv.AppendBotTurn(answer)
	return &ChatReply{Reply: answer}, nil
}

func (s *chatService) History(sess *session.Session) []model.ConversationTurn {
	return sess.Conversation().History()
}
