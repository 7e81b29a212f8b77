package repositories

import (
	"fmt"

	"github.com/talentbase/backend/internal/models"
	"gorm.io/gorm"
)

// DefaultFollowerLimit bounds follower reads used for broadcast fan-out.
const DefaultFollowerLimit = 1000

// FollowRepository defines the interface for follow edge operations. The
// subsystem reads the follower list as the broadcast audience; the rest of
// the social graph lives elsewhere.
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID string) error
	IsFollowing(followerID, followingID string) (bool, error)
	GetFollowerIDs(userID string, limit int) ([]string, error)
	GetFollowingIDs(userID string, limit int) ([]string, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID string) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow relationship not found")
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowerIDs returns up to limit follower ids of userID. This is the
// audience list for broadcast notifications.
func (r *PostgresFollowRepository) GetFollowerIDs(userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultFollowerLimit
	}
	var ids []string
	err := r.db.Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Limit(limit).
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultFollowerLimit
	}
	var ids []string
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Limit(limit).
		Pluck("following_id", &ids).Error
	return ids, err
}
