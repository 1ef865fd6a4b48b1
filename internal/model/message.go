package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a user's conversation with the assistant.
// Messages are append-only; insertion order is significant.
type ChatMessage struct {
	ID        int64     `json:"id,omitempty"`
	UserID    string    `json:"-"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSendRequest struct {
	Message string `json:"message"`
}

type ChatSendResponse struct {
	Reply *ChatMessage `json:"reply"`
}
