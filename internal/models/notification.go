package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates the events that produce a notification.
type NotificationType string

const (
	NotificationFollow   NotificationType = "follow"
	NotificationMessage  NotificationType = "message"
	NotificationLike     NotificationType = "like"
	NotificationComment  NotificationType = "comment"
	NotificationShare    NotificationType = "share"
	NotificationNewSkill NotificationType = "new_skill"
	NotificationNewVideo NotificationType = "new_video"
)

// Notification represents a single entry in a user's notification feed,
// stored in MongoDB. Data carries a type-dependent payload:
//
//	follow    {follower_id}
//	message   {conversation_id, sender_id, text}
//	like      {post_id, user_id}
//	comment   {post_id, user_id, comment_id, text}
//	share     {post_id, user_id, new_post_id}
//	new_skill {skill_id, category, subcategory, user_id}
//	new_video {skill_id, category, subcategory, video_count, user_id}
type Notification struct {
	ID          primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID string                 `json:"recipient_id" bson:"recipient_id"`
	Type        NotificationType       `json:"type" bson:"type"`
	Data        map[string]interface{} `json:"data" bson:"data"`
	Read        bool                   `json:"read" bson:"read"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
}

// LikeEventRequest is posted by the post service when someone likes a post.
type LikeEventRequest struct {
	PostID      string `json:"post_id" validate:"required"`
	RecipientID string `json:"recipient_id" validate:"required"`
}

// CommentEventRequest is posted by the post service on a new comment.
type CommentEventRequest struct {
	PostID      string `json:"post_id" validate:"required"`
	RecipientID string `json:"recipient_id" validate:"required"`
	CommentID   string `json:"comment_id" validate:"required"`
	Text        string `json:"text"`
}

// ShareEventRequest is posted by the post service when a post is shared.
type ShareEventRequest struct {
	PostID      string `json:"post_id" validate:"required"`
	RecipientID string `json:"recipient_id" validate:"required"`
	NewPostID   string `json:"new_post_id" validate:"required"`
}
