package repositories

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/talentbase/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultConversationLimit bounds conversation list reads, matching the
// client page size.
const DefaultConversationLimit = 50

// ConversationRepository defines the interface for conversation documents.
type ConversationRepository interface {
	Get(ctx context.Context, id string) (*models.Conversation, error)
	Create(ctx context.Context, conversation *models.Conversation) error
	ListForUser(ctx context.Context, userID string, limit int64) ([]models.Conversation, error)
	ApplyMessage(ctx context.Context, id string, last models.LastMessage, recipientID string) error
	ResetUnread(ctx context.Context, id, userID string) error
	WatchForUser(ctx context.Context, userID string) (<-chan []models.Conversation, error)
}

// MongoConversationRepository implements ConversationRepository for MongoDB
type MongoConversationRepository struct {
	collection *mongo.Collection
}

// NewMongoConversationRepository creates a new MongoConversationRepository
func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{collection: db.Collection("conversations")}
}

// Get retrieves a conversation by its canonical key
func (r *MongoConversationRepository) Get(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// Create inserts a new conversation document. The canonical key is the _id,
// so a concurrent first-contact from the other side surfaces as
// ErrAlreadyExists and the caller re-reads the winner's document.
func (r *MongoConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	now := time.Now().UTC()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	if conversation.UnreadCounts == nil {
		conversation.UnreadCounts = make(map[string]int, len(conversation.Participants))
		for _, p := range conversation.Participants {
			conversation.UnreadCounts[p] = 0
		}
	}
	_, err := r.collection.InsertOne(ctx, conversation)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}
	return err
}

// ListForUser returns the user's conversations sorted by updatedAt
// descending. Ties are broken by conversation key so the order is
// deterministic across deliveries.
func (r *MongoConversationRepository) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = DefaultConversationLimit
	}
	findOptions := options.Find().SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"participants": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	sortConversations(conversations)
	return conversations, nil
}

func sortConversations(conversations []models.Conversation) {
	sort.Slice(conversations, func(i, j int) bool {
		if !conversations[i].UpdatedAt.Equal(conversations[j].UpdatedAt) {
			return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
		}
		return conversations[i].ID < conversations[j].ID
	})
}

// ApplyMessage records a newly sent message on the conversation document:
// lastMessage and updatedAt are replaced and the recipient's unread counter
// is incremented atomically, never read-modify-written.
func (r *MongoConversationRepository) ApplyMessage(ctx context.Context, id string, last models.LastMessage, recipientID string) error {
	update := bson.M{
		"$set": bson.M{
			"last_message": last,
			"updated_at":   last.CreatedAt,
		},
		"$inc": bson.M{"unread_counts." + recipientID: 1},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetUnread sets the user's unread counter to exactly zero. Repeating the
// call is a no-op.
func (r *MongoConversationRepository) ResetUnread(ctx context.Context, id, userID string) error {
	update := bson.M{"$set": bson.M{"unread_counts." + userID: 0}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// WatchForUser opens a change stream over the user's conversations. Every
// matching change re-delivers the full re-sorted list, never a diff; the
// first delivery is the current snapshot. The channel closes when ctx is
// cancelled or the stream ends.
func (r *MongoConversationRepository) WatchForUser(ctx context.Context, userID string) (<-chan []models.Conversation, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "fullDocument.participants", Value: userID}}}},
	}
	stream, err := r.collection.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Conversation, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		if snapshot, err := r.ListForUser(ctx, userID, DefaultConversationLimit); err == nil {
			out <- snapshot
		} else if ctx.Err() == nil {
			log.Printf("conversation watch: initial snapshot for %s: %v", userID, err)
		}

		for stream.Next(ctx) {
			snapshot, err := r.ListForUser(ctx, userID, DefaultConversationLimit)
			if err != nil {
				log.Printf("conversation watch: requery for %s: %v", userID, err)
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
