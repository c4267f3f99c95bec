package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ishaan2692/matchify/internal/model"
)

// Conversation is the append-only chat history of a single session.
type Conversation struct {
	mu    sync.RWMutex
	turns []model.ConversationTurn
}

// NewConversation constructs an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// AppendUserTurn records a message authored by the user.
func (c *Conversation) AppendUserTurn(message string) {
	c.append(model.RoleUser, message)
}

// AppendBotTurn records a reply authored by the assistant.
func (c *Conversation) AppendBotTurn(message string) {
	c.append(model.RoleBot, message)
}

func (c *Conversation) append(role model.Role, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, model.ConversationTurn{Role: role, Message: message})
}

// RenderContext flattens the history into a single prompt block, one turn
// per line in insertion order. Rendering never mutates the history.
func (c *Conversation) RenderContext() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]string, len(c.turns))
	for i, t := range c.turns {
		lines[i] = fmt.Sprintf("%s: %s", t.Role, t.Message)
	}
	return strings.Join(lines, "\n")
}

// History returns a copy of the recorded turns, oldest first.
func (c *Conversation) History() []model.ConversationTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len reports the number of recorded turns.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}
