package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Skill is a talent entry on a user's profile, stored in MongoDB. Adding a
// skill or attaching new video links broadcasts a notification to the user's
// followers.
type Skill struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       string             `json:"user_id" bson:"user_id"`
	Category     string             `json:"category" bson:"category"`
	Subcategory  string             `json:"subcategory" bson:"subcategory"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	SkillLevel   string             `json:"skill_level,omitempty" bson:"skill_level,omitempty"`
	YoutubeLinks []string           `json:"youtube_links,omitempty" bson:"youtube_links,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// AddSkillRequest defines the request body for adding a skill.
type AddSkillRequest struct {
	Category     string   `json:"category" validate:"required,min=2,max=60"`
	Subcategory  string   `json:"subcategory" validate:"required,min=2,max=60"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=500"`
	SkillLevel   string   `json:"skill_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	YoutubeLinks []string `json:"youtube_links,omitempty" validate:"omitempty,dive,url"`
}

// UpdateSkillRequest defines the request body for updating a skill. Only
// non-zero fields are applied.
type UpdateSkillRequest struct {
	Category     string   `json:"category,omitempty" validate:"omitempty,min=2,max=60"`
	Subcategory  string   `json:"subcategory,omitempty" validate:"omitempty,min=2,max=60"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=500"`
	SkillLevel   string   `json:"skill_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	YoutubeLinks []string `json:"youtube_links,omitempty" validate:"omitempty,dive,url"`
}
