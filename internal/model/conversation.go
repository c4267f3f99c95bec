package model

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser Role = "User"
	RoleBot  Role = "Bot"
)

// ConversationTurn is a single exchange entry in a session's chat history.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Message string `json:"message"`
}
