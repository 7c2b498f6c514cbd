package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"serena-mcp/internal/models"
	"serena-mcp/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateConversation_Defaults(t *testing.T) {
	s := NewStore()
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	conv, err := s.CreateConversation(context.Background(), store.CreateConversationParams{})
	require.NoError(t, err)

	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, models.DefaultConversationTitle, conv.Title)
	assert.NotNil(t, conv.Messages)
	assert.Empty(t, conv.Messages)
	assert.Equal(t, "2025-01-02T03:04:05Z", conv.CreatedAt)
	assert.Equal(t, conv.CreatedAt, conv.UpdatedAt)
	assert.Nil(t, conv.Metadata)
}

func TestStore_CreateConversation_CallerFields(t *testing.T) {
	s := NewStore()

	conv, err := s.CreateConversation(context.Background(), store.CreateConversationParams{
		Title:     "demo",
		CreatedAt: "2024-05-01T00:00:00Z",
		UpdatedAt: "2024-05-02T00:00:00Z",
		Metadata:  map[string]interface{}{"source": "test"},
	})
	require.NoError(t, err)

	assert.Equal(t, "demo", conv.Title)
	assert.Equal(t, "2024-05-01T00:00:00Z", conv.CreatedAt)
	assert.Equal(t, "2024-05-02T00:00:00Z", conv.UpdatedAt)
	assert.Equal(t, "test", conv.Metadata["source"])
}

func TestStore_CreateConversation_UniqueIDs(t *testing.T) {
	s := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		conv, err := s.CreateConversation(context.Background(), store.CreateConversationParams{})
		require.NoError(t, err)
		require.False(t, seen[conv.ID], "duplicate id %s", conv.ID)
		seen[conv.ID] = true
	}
}

func TestStore_AddMessage_OrderAndUpdatedAt(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	conv, err := s.CreateConversation(ctx, store.CreateConversationParams{Title: "ordered"})
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		msg, err := s.AddMessage(ctx, conv.ID, store.AddMessageParams{
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: fmt.Sprintf("2025-01-01T00:00:0%dZ", i),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, models.DefaultMessageRole, msg.Role)
	}

	got, err := s.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, n)
	for i, m := range got.Messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), m.Content)
	}
	assert.Equal(t, got.Messages[n-1].CreatedAt, got.UpdatedAt)
}

func TestStore_AddMessage_ServerTimestamp(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	conv, err := s.CreateConversation(ctx, store.CreateConversationParams{CreatedAt: "2020-01-01T00:00:00Z"})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	msg, err := s.AddMessage(ctx, conv.ID, store.AddMessageParams{Role: "assistant"})
	require.NoError(t, err)
	assert.Equal(t, "assistant", msg.Role)
	assert.Equal(t, "", msg.Content)
	assert.Equal(t, "2026-06-01T12:00:00Z", msg.CreatedAt)

	got, err := s.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01T12:00:00Z", got.UpdatedAt)
	assert.Equal(t, "2020-01-01T00:00:00Z", got.CreatedAt)
}

func TestStore_UnknownID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.GetConversation(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.AddMessage(ctx, "missing", store.AddMessageParams{Content: "hi"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteConversation(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_DeleteConversation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	conv, err := s.CreateConversation(ctx, store.CreateConversationParams{})
	require.NoError(t, err)

	require.NoError(t, s.DeleteConversation(ctx, conv.ID))

	_, err = s.GetConversation(ctx, conv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteConversation(ctx, conv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "second delete reports not found")

	list, err := s.ListConversations(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ListConversations(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	list, err := s.ListConversations(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	ids := make(map[string]bool)
	for _, title := range []string{"a", "b", "c"} {
		conv, err := s.CreateConversation(ctx, store.CreateConversationParams{Title: title})
		require.NoError(t, err)
		ids[conv.ID] = true
	}

	list, err = s.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, conv := range list {
		assert.True(t, ids[conv.ID])
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	conv, err := s.CreateConversation(ctx, store.CreateConversationParams{
		Metadata: map[string]interface{}{"k": "v"},
	})
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, conv.ID, store.AddMessageParams{Content: "original"})
	require.NoError(t, err)

	got, err := s.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Metadata["k"] = "mutated"
	got.Messages[0].Content = "mutated"

	again, err := s.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultConversationTitle, again.Title)
	assert.Equal(t, "v", again.Metadata["k"])
	assert.Equal(t, "original", again.Messages[0].Content)
}

func TestStore_ConcurrentAppends(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	conv, err := s.CreateConversation(ctx, store.CreateConversationParams{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddMessage(ctx, conv.ID, store.AddMessageParams{Content: fmt.Sprint(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 50)
}
