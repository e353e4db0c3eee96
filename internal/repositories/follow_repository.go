package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	subQuery := r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID)
	if err := r.db.WithContext(ctx).Where("id IN (?)", subQuery).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	subQuery := r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID)
	if err := r.db.WithContext(ctx).Where("id IN (?)", subQuery).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
