package repositories

import (
	"context"
	"log"
	"time"

	"github.com/talentbase/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMessageLimit bounds message list reads.
const DefaultMessageLimit = 50

// MessageRepository defines the interface for the per-conversation message
// stream. Messages are append-only; the only mutation is the read flag.
type MessageRepository interface {
	Append(ctx context.Context, message *models.Message) error
	List(ctx context.Context, conversationID string, limit int64) ([]models.Message, error)
	MarkReadExceptSender(ctx context.Context, conversationID, userID string) error
	Watch(ctx context.Context, conversationID string) (<-chan []models.Message, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// Append persists a new immutable message. CreatedAt is assigned here so
// ordering inside a conversation follows the server clock, never the
// client's.
func (r *MongoMessageRepository) Append(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now().UTC()
	message.Read = false
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// List returns the oldest messages of a conversation in createdAt ascending
// order.
func (r *MongoMessageRepository) List(ctx context.Context, conversationID string, limit int64) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"conversation_id": conversationID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkReadExceptSender flags every unread message not authored by userID as
// read. Running it twice changes nothing.
func (r *MongoMessageRepository) MarkReadExceptSender(ctx context.Context, conversationID, userID string) error {
	filter := bson.M{
		"conversation_id": conversationID,
		"read":            false,
		"sender_id":       bson.M{"$ne": userID},
	}
	_, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	return err
}

// Watch opens a change stream over one conversation's messages, re-delivering
// the full ordered list on every change. The first delivery is the current
// snapshot.
func (r *MongoMessageRepository) Watch(ctx context.Context, conversationID string) (<-chan []models.Message, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "fullDocument.conversation_id", Value: conversationID}}}},
	}
	stream, err := r.collection.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Message, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		if snapshot, err := r.List(ctx, conversationID, DefaultMessageLimit); err == nil {
			out <- snapshot
		} else if ctx.Err() == nil {
			log.Printf("message watch: initial snapshot for %s: %v", conversationID, err)
		}

		for stream.Next(ctx) {
			snapshot, err := r.List(ctx, conversationID, DefaultMessageLimit)
			if err != nil {
				log.Printf("message watch: requery for %s: %v", conversationID, err)
				continue
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
