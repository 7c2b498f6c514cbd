package models

// DefaultMessageRole is applied when a message is appended without a role.
const DefaultMessageRole = "user"

// Message represents a single message in a conversation.
// Messages are append-only and always belong to exactly one conversation.
type Message struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`            // The text content of the message
	Role      string                 `json:"role"`               // e.g., "user", "assistant", "system"; not validated
	CreatedAt string                 `json:"created_at"`         // Caller-supplied or server time (RFC 3339)
	Metadata  map[string]interface{} `json:"metadata,omitempty"` // Optional, never interpreted
}
