package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/talentbase/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SkillRepository defines the interface for skill documents. Skill mutations
// are the triggers for broadcast notifications.
type SkillRepository interface {
	CreateSkill(ctx context.Context, skill *models.Skill) error
	GetSkill(ctx context.Context, userID, skillID string) (*models.Skill, error)
	ListByUser(ctx context.Context, userID string) ([]models.Skill, error)
	UpdateSkill(ctx context.Context, skill *models.Skill) error
}

// MongoSkillRepository implements SkillRepository for MongoDB
type MongoSkillRepository struct {
	collection *mongo.Collection
}

// NewMongoSkillRepository creates a new MongoSkillRepository
func NewMongoSkillRepository(db *mongo.Database) *MongoSkillRepository {
	return &MongoSkillRepository{collection: db.Collection("skills")}
}

// CreateSkill creates a new skill document
func (r *MongoSkillRepository) CreateSkill(ctx context.Context, skill *models.Skill) error {
	skill.ID = primitive.NewObjectID()
	skill.CreatedAt = time.Now().UTC()
	skill.UpdatedAt = skill.CreatedAt
	_, err := r.collection.InsertOne(ctx, skill)
	return err
}

// GetSkill retrieves one of the user's skills by ID
func (r *MongoSkillRepository) GetSkill(ctx context.Context, userID, skillID string) (*models.Skill, error) {
	objID, err := primitive.ObjectIDFromHex(skillID)
	if err != nil {
		return nil, fmt.Errorf("invalid skill ID format: %w", err)
	}

	var skill models.Skill
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "user_id": userID}).Decode(&skill)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &skill, nil
}

// ListByUser retrieves the user's skills, newest first
func (r *MongoSkillRepository) ListByUser(ctx context.Context, userID string) ([]models.Skill, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var skills []models.Skill
	if err = cursor.All(ctx, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// UpdateSkill replaces the mutable fields of an existing skill
func (r *MongoSkillRepository) UpdateSkill(ctx context.Context, skill *models.Skill) error {
	skill.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"category":      skill.Category,
			"subcategory":   skill.Subcategory,
			"description":   skill.Description,
			"skill_level":   skill.SkillLevel,
			"youtube_links": skill.YoutubeLinks,
			"updated_at":    skill.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": skill.ID, "user_id": skill.UserID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
