package models

// MessageRole identifies who authored a chat message
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleModel MessageRole = "model"
)

// ChatMessage represents a message in the chat transcript
type ChatMessage struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text"`
}

// Valid reports whether the role is one of the known roles
func (r MessageRole) Valid() bool {
	switch r {
	case MessageRoleUser, MessageRoleModel:
		return true
	default:
		return false
	}
}
