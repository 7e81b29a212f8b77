package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talentbase/backend/internal/chat"
	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/repositories"
)

// ChatService orchestrates two-party messaging: lazy conversation creation,
// message sends with unread bookkeeping, read convergence, and the message
// notification trigger.
type ChatService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	notifier      *NotificationService
}

// NewChatService creates a new ChatService
func NewChatService(conversationRepo repositories.ConversationRepository, messageRepo repositories.MessageRepository, notifier *NotificationService) *ChatService {
	return &ChatService{
		conversations: conversationRepo,
		messages:      messageRepo,
		notifier:      notifier,
	}
}

// GetOrCreateConversation resolves the canonical key for the pair and returns
// the existing conversation or lazily creates an empty one. Concurrent
// first-contact from both sides converges on a single document: the losing
// create observes the winner's document instead of overwriting it.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	id, err := chat.ConversationID(a, b)
	if err != nil {
		return nil, err
	}

	conversation, err := s.conversations.Get(ctx, id)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("load conversation %s: %w", id, err)
	}

	pair := chat.Participants(a, b)
	conversation = &models.Conversation{
		ID:           id,
		Participants: pair[:],
	}
	err = s.conversations.Create(ctx, conversation)
	if errors.Is(err, repositories.ErrAlreadyExists) {
		return s.conversations.Get(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("create conversation %s: %w", id, err)
	}
	return conversation, nil
}

// SendMessage appends an immutable message, updates the conversation's
// lastMessage/updatedAt, atomically increments the recipient's unread counter
// and queues a message notification. The notification is a best-effort side
// effect; message and counter updates are durable regardless of its outcome.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conversation, err := s.conversations.Get(ctx, conversationID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidConversation
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	if !conversation.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: sender %s is not a participant", chat.ErrInvalidParticipants, senderID)
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	}
	if err := s.messages.Append(ctx, message); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	recipientID := conversation.OtherParticipant(senderID)
	last := models.LastMessage{
		Text:      text,
		SenderID:  senderID,
		CreatedAt: message.CreatedAt,
	}
	if err := s.conversations.ApplyMessage(ctx, conversationID, last, recipientID); err != nil {
		return nil, fmt.Errorf("update conversation %s: %w", conversationID, err)
	}

	s.notifier.NotifyMessage(ctx, recipientID, conversationID, senderID, text)

	return message, nil
}

// MarkMessagesAsRead resets the user's unread counter to exactly zero and
// flags all messages from the other participant as read. Only a participant
// may mark the thread; an outsider would otherwise flip the real recipient's
// messages. The operation is convergent; repeating it has no further effect.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, conversationID, userID string) error {
	conversation, err := s.conversations.Get(ctx, conversationID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidConversation
	}
	if err != nil {
		return fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	if !conversation.HasParticipant(userID) {
		return fmt.Errorf("%w: %s is not a participant", chat.ErrInvalidParticipants, userID)
	}

	if err := s.conversations.ResetUnread(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("reset unread for %s: %w", userID, err)
	}
	if err := s.messages.MarkReadExceptSender(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

// ListMessages returns the conversation's messages in createdAt ascending
// order.
func (s *ChatService) ListMessages(ctx context.Context, conversationID string, limit int64) ([]models.Message, error) {
	return s.messages.List(ctx, conversationID, limit)
}

// ListConversations returns the user's conversations, newest activity first,
// each annotated with that user's own unread counter.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]models.ConversationView, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID, repositories.DefaultConversationLimit)
	if err != nil {
		return nil, err
	}
	views := make([]models.ConversationView, 0, len(conversations))
	for _, c := range conversations {
		views = append(views, c.ViewFor(userID))
	}
	return views, nil
}
