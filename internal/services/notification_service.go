package services

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// PreviewLimit is the maximum number of characters carried in a message
// notification before the text is cut and marked with an ellipsis.
const PreviewLimit = 50

// fanoutWorkers bounds concurrent notification writes during a broadcast.
const fanoutWorkers = 16

// NotificationService is the fan-out engine. Every dispatch is best-effort:
// a failed notification write is logged and swallowed so the triggering
// action (send, follow, like, skill add) never observes it.
//
// Broadcasts carry no deduplication: repeating the identical trigger writes a
// second batch. Callers that need dedup must guard the trigger itself.
type NotificationService struct {
	notifications repositories.NotificationRepository
	follows       repositories.FollowRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repositories.NotificationRepository, followRepo repositories.FollowRepository) *NotificationService {
	return &NotificationService{
		notifications: notificationRepo,
		follows:       followRepo,
	}
}

// Notify creates one direct notification for one recipient. Errors are
// logged, never returned.
func (s *NotificationService) Notify(ctx context.Context, recipientID string, typ models.NotificationType, data map[string]interface{}) {
	if recipientID == "" || typ == "" {
		return
	}
	notification := &models.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Data:        data,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		log.Printf("notification: create %s for %s: %v", typ, recipientID, err)
	}
}

// NotifyFollow tells followingID that followerID started following them.
func (s *NotificationService) NotifyFollow(ctx context.Context, followingID, followerID string) {
	s.Notify(ctx, followingID, models.NotificationFollow, map[string]interface{}{
		"follower_id": followerID,
	})
}

// NotifyMessage tells the recipient about a new direct message, carrying a
// truncated preview of the text.
func (s *NotificationService) NotifyMessage(ctx context.Context, recipientID, conversationID, senderID, text string) {
	s.Notify(ctx, recipientID, models.NotificationMessage, map[string]interface{}{
		"conversation_id": conversationID,
		"sender_id":       senderID,
		"text":            TruncatePreview(text),
	})
}

// NotifyLike tells the post owner that actorID liked their post.
func (s *NotificationService) NotifyLike(ctx context.Context, recipientID, postID, actorID string) {
	s.Notify(ctx, recipientID, models.NotificationLike, map[string]interface{}{
		"post_id": postID,
		"user_id": actorID,
	})
}

// NotifyComment tells the post owner about a new comment.
func (s *NotificationService) NotifyComment(ctx context.Context, recipientID, postID, actorID, commentID, text string) {
	s.Notify(ctx, recipientID, models.NotificationComment, map[string]interface{}{
		"post_id":    postID,
		"user_id":    actorID,
		"comment_id": commentID,
		"text":       TruncatePreview(text),
	})
}

// NotifyShare tells the post owner that actorID re-shared their post.
func (s *NotificationService) NotifyShare(ctx context.Context, recipientID, postID, actorID, newPostID string) {
	s.Notify(ctx, recipientID, models.NotificationShare, map[string]interface{}{
		"post_id":     postID,
		"user_id":     actorID,
		"new_post_id": newPostID,
	})
}

// NotifyFollowers broadcasts one notification per follower of userID. The
// follower set is bounded, writes run concurrently, and partial failure
// neither rolls back the successful writes nor surfaces to the trigger.
func (s *NotificationService) NotifyFollowers(ctx context.Context, userID string, typ models.NotificationType, data map[string]interface{}) {
	followerIDs, err := s.follows.GetFollowerIDs(userID, repositories.DefaultFollowerLimit)
	if err != nil {
		log.Printf("notification: fan-out %s: follower lookup for %s: %v", typ, userID, err)
		return
	}
	if len(followerIDs) == 0 {
		return
	}

	payload := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["user_id"] = userID

	var failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(fanoutWorkers)
	for _, followerID := range followerIDs {
		followerID := followerID
		g.Go(func() error {
			notification := &models.Notification{
				RecipientID: followerID,
				Type:        typ,
				Data:        payload,
			}
			if err := s.notifications.Create(ctx, notification); err != nil {
				failed.Add(1)
				log.Printf("notification: fan-out %s to %s: %v", typ, followerID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		log.Printf("notification: fan-out %s from %s: %d/%d writes failed", typ, userID, n, len(followerIDs))
	}
}

// TruncatePreview cuts text to PreviewLimit characters, appending "..." when
// the original was longer.
func TruncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLimit {
		return text
	}
	return string(runes[:PreviewLimit]) + "..."
}
