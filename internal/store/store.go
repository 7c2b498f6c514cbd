package store

import (
	"context"
	"errors"

	"serena-mcp/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// CreateConversationParams contains parameters for creating a conversation.
// Empty fields are filled in by the implementation (default title, server timestamps).
type CreateConversationParams struct {
	Title     string
	CreatedAt string
	UpdatedAt string
	Metadata  map[string]interface{}
}

// AddMessageParams contains parameters for appending a message to a conversation.
type AddMessageParams struct {
	Content   string
	Role      string // defaults to models.DefaultMessageRole
	CreatedAt string
	Metadata  map[string]interface{}
}

// ConversationStore defines the operations on the conversation collection.
// This allows isolated stores per test and potential backend switching.
type ConversationStore interface {
	CreateConversation(ctx context.Context, arg CreateConversationParams) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	// ListConversations returns every conversation. Callers must not rely on ordering.
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	AddMessage(ctx context.Context, conversationID string, arg AddMessageParams) (*models.Message, error)
	DeleteConversation(ctx context.Context, id string) error
}
