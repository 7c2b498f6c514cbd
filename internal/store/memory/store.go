package memory

import (
	"context"
	"log"
	"sync"
	"time"

	"serena-mcp/internal/models"
	"serena-mcp/internal/store"

	"github.com/google/uuid"
)

// Compile-time check to ensure Store implements store.ConversationStore
var _ store.ConversationStore = (*Store)(nil)

// Store is a process-local conversation store. Nothing is persisted.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	order         []string // insertion order, keeps List stable
	now           func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*models.Conversation),
		now:           time.Now,
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// CreateConversation stores a new conversation under a fresh id. It never fails.
func (s *Store) CreateConversation(ctx context.Context, arg store.CreateConversationParams) (*models.Conversation, error) {
	title := arg.Title
	if title == "" {
		title = models.DefaultConversationTitle
	}
	createdAt := arg.CreatedAt
	if createdAt == "" {
		createdAt = s.timestamp()
	}
	updatedAt := arg.UpdatedAt
	if updatedAt == "" {
		updatedAt = createdAt
	}

	conv := &models.Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		Messages:  []models.Message{},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Metadata:  arg.Metadata,
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.order = append(s.order, conv.ID)
	s.mu.Unlock()

	log.Printf("[MemoryStore] CreateConversation: created %s", conv.ID)
	return conv.Clone(), nil
}

// GetConversation returns a copy of the conversation or store.ErrNotFound.
func (s *Store) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return conv.Clone(), nil
}

// ListConversations returns copies of all conversations.
func (s *Store) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.conversations[id].Clone())
	}
	return out, nil
}

// AddMessage appends a message and moves updated_at to the message's timestamp.
func (s *Store) AddMessage(ctx context.Context, conversationID string, arg store.AddMessageParams) (*models.Message, error) {
	role := arg.Role
	if role == "" {
		role = models.DefaultMessageRole
	}
	createdAt := arg.CreatedAt
	if createdAt == "" {
		createdAt = s.timestamp()
	}

	msg := models.Message{
		ID:        uuid.New().String(),
		Content:   arg.Content,
		Role:      role,
		CreatedAt: createdAt,
		Metadata:  arg.Metadata,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, store.ErrNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt

	return &msg, nil
}

// DeleteConversation removes the conversation or returns store.ErrNotFound.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.conversations, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	log.Printf("[MemoryStore] DeleteConversation: deleted %s", id)
	return nil
}
