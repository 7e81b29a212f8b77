package repositories

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/talentbase/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultNotificationLimit bounds notification feed reads, matching the
// dropdown page size.
const DefaultNotificationLimit = 20

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, notificationID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	WatchByRecipient(ctx context.Context, recipientID string) (<-chan []models.Notification, error)
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// Create inserts a notification in the created(read=false) state.
func (r *MongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now().UTC()
	notification.Read = false
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *MongoNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	findOptions := options.Find().SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"recipient_id": recipientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	sortNotifications(notifications)
	return notifications, nil
}

func sortNotifications(notifications []models.Notification) {
	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
		}
		return notifications[i].ID.Hex() < notifications[j].ID.Hex()
	})
}

// UnreadCount returns the number of unread notifications for the recipient.
func (r *MongoNotificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
}

// MarkAsRead flips a single notification to read. The transition is terminal.
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, notificationID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead flips every unread notification of the recipient to read.
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

// WatchByRecipient opens a change stream over the recipient's notifications,
// re-delivering the full sorted feed on every change. The first delivery is
// the current snapshot.
func (r *MongoNotificationRepository) WatchByRecipient(ctx context.Context, recipientID string) (<-chan []models.Notification, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "fullDocument.recipient_id", Value: recipientID}}}},
	}
	stream, err := r.collection.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Notification, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		if snapshot, err := r.ListByRecipient(ctx, recipientID, DefaultNotificationLimit); err == nil {
			out <- snapshot
		} else if ctx.Err() == nil {
			log.Printf("notification watch: initial snapshot for %s: %v", recipientID, err)
		}

		for stream.Next(ctx) {
			snapshot, err := r.ListByRecipient(ctx, recipientID, DefaultNotificationLimit)
			if err != nil {
				log.Printf("notification watch: requery for %s: %v", recipientID, err)
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
