package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/realtime"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// MessageService handles direct messages and their realtime delivery.
type MessageService struct {
	store storage.Store
	hub   *realtime.Hub
}

// NewMessageService creates a new message service.
func NewMessageService(store storage.Store, hub *realtime.Hub) *MessageService {
	return &MessageService{store: store, hub: hub}
}

// Send delivers a direct message: persisted first, then pushed to the
// recipient's live connections.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrValidation)
	}
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}

	recipient, err := s.store.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, fmt.Errorf("recipient %s: %w", recipientID, storage.ErrNotFound)
	}

	m := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		slog.Error("CreateMessage failed", "sender_id", senderID, "error", err)
		return nil, err
	}

	s.hub.Publish(recipientID, realtime.Event{
		ID:      m.ID,
		Kind:    realtime.KindMessage,
		Payload: m,
	})
	return m, nil
}

// Conversation returns the messages exchanged between the user and the other
// party, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string, limit int) ([]*models.Message, error) {
	return s.store.ListConversation(ctx, userID, otherID, limit)
}
