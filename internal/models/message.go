package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single immutable chat message stored in MongoDB. Messages are
// never edited or deleted; only the read flag flips when the recipient opens
// the thread.
type Message struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID string             `json:"conversation_id" bson:"conversation_id"`
	SenderID       string             `json:"sender_id" bson:"sender_id"`
	Text           string             `json:"text" bson:"text"`
	Read           bool               `json:"read" bson:"read"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
