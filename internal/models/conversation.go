package models

import "time"

// LastMessage is the denormalized preview of the newest message in a
// conversation, stored on the conversation document itself.
type LastMessage struct {
	Text      string    `json:"text" bson:"text"`
	SenderID  string    `json:"sender_id" bson:"sender_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Conversation represents a two-party direct-message thread stored in MongoDB.
// The document ID is the canonical key derived from the sorted participant
// pair, so exactly one document can exist per pair.
type Conversation struct {
	ID           string         `json:"id" bson:"_id"`
	Participants []string       `json:"participants" bson:"participants"`
	LastMessage  *LastMessage   `json:"last_message,omitempty" bson:"last_message,omitempty"`
	UnreadCounts map[string]int `json:"-" bson:"unread_counts"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}

// UnreadFor returns the unread counter for the given participant.
// A missing entry counts as zero.
func (c *Conversation) UnreadFor(userID string) int {
	if c.UnreadCounts == nil {
		return 0
	}
	return c.UnreadCounts[userID]
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not part of the conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ConversationView is a conversation annotated with the viewing user's own
// unread counter, the shape handed to clients.
type ConversationView struct {
	Conversation
	UnreadCount int `json:"unread_count"`
}

// ViewFor builds the per-user projection of the conversation.
func (c Conversation) ViewFor(userID string) ConversationView {
	return ConversationView{Conversation: c, UnreadCount: c.UnreadFor(userID)}
}

// CreateConversationRequest defines the request body for opening (or
// re-opening) a conversation with another user.
type CreateConversationRequest struct {
	PeerID string `json:"peer_id" validate:"required"`
}

// SendMessageRequest defines the request body for sending a message.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}
