package services

import (
	"context"
	"errors"
	"fmt"

	"serena-mcp/internal/models"
	"serena-mcp/internal/store"
)

func (d *Dispatcher) createConversation(ctx context.Context, params Params) (interface{}, error) {
	metadata, err := params.Object("metadata")
	if err != nil {
		return nil, err
	}

	conv, err := d.store.CreateConversation(ctx, store.CreateConversationParams{
		Title:     params.String("title"),
		CreatedAt: params.String("created_at"),
		UpdatedAt: params.String("updated_at"),
		Metadata:  metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &models.CreateConversationResponse{ConversationID: conv.ID, Success: true}, nil
}

func (d *Dispatcher) getConversation(ctx context.Context, params Params) (interface{}, error) {
	id, err := params.RequireString("conversation_id")
	if err != nil {
		return nil, err
	}
	conv, err := d.store.GetConversation(ctx, id)
	if err != nil {
		return nil, conversationError(id, err)
	}
	return conv, nil
}

func (d *Dispatcher) listConversations(ctx context.Context, params Params) (interface{}, error) {
	convs, err := d.store.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return &models.ListConversationsResponse{Conversations: convs}, nil
}

// addMessage accepts {"message": {...}} and, when "message" is absent, the flat legacy
// form with "content" and "role" at the top level.
func (d *Dispatcher) addMessage(ctx context.Context, params Params) (interface{}, error) {
	id, err := params.RequireString("conversation_id")
	if err != nil {
		return nil, err
	}
	// An unknown conversation is reported before payload problems.
	if _, err := d.store.GetConversation(ctx, id); err != nil {
		return nil, conversationError(id, err)
	}

	var msg Params
	switch {
	case params.Has("message"):
		obj, err := params.Object("message")
		if err != nil {
			return nil, err
		}
		msg = Params(obj)
	case params.Has("content"):
		msg = params
	default:
		return nil, missingParam("message")
	}

	metadata, err := msg.Object("metadata")
	if err != nil {
		return nil, err
	}

	added, err := d.store.AddMessage(ctx, id, store.AddMessageParams{
		Content:   msg.String("content"),
		Role:      msg.String("role"),
		CreatedAt: msg.String("created_at"),
		Metadata:  metadata,
	})
	if err != nil {
		return nil, conversationError(id, err)
	}
	return &models.AddMessageResponse{MessageID: added.ID, Success: true}, nil
}

func (d *Dispatcher) deleteConversation(ctx context.Context, params Params) (interface{}, error) {
	id, err := params.RequireString("conversation_id")
	if err != nil {
		return nil, err
	}
	if err := d.store.DeleteConversation(ctx, id); err != nil {
		return nil, conversationError(id, err)
	}
	return &models.SuccessResponse{Success: true}, nil
}

func conversationError(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: conversation '%s'", ErrNotFound, id)
	}
	return fmt.Errorf("conversation '%s': %w", id, err)
}
