package repositories

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	ApplyReactionsDelta(ctx context.Context, commentID string, delta int) error
	CountDistinctCommenters(ctx context.Context, postID string, excludeUserID uint) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a post
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates an existing comment
func (r *PostgresCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteComment deletes a comment by ID
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

// ApplyReactionsDelta atomically applies a +1/-1 delta to the comment's
// denormalized reaction counter via a SQL-side expression, never a
// read-modify-write.
func (r *PostgresCommentRepository) ApplyReactionsDelta(ctx context.Context, commentID string, delta int) error {
	id, err := strconv.ParseUint(commentID, 10, 32)
	if err != nil {
		return errs.NotFound
	}
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", uint(id)).
		Update("reactions_count", gorm.Expr("reactions_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

// CountDistinctCommenters counts distinct users who commented on the
// post, excluding the given user (the post owner, for notifications).
func (r *PostgresCommentRepository) CountDistinctCommenters(ctx context.Context, postID string, excludeUserID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND user_id <> ?", postID, excludeUserID).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
