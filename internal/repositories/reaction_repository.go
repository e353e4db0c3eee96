package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// ReactionRepository defines the interface for reaction data operations.
// It is the persistence behind the reaction ledger.
type ReactionRepository interface {
	GetReaction(ctx context.Context, actorID uint, targetID, targetType string) (*models.Reaction, error)
	CreateReaction(ctx context.Context, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, actorID uint, targetID, targetType string) error
	GetReactionsByTarget(ctx context.Context, targetID, targetType string) ([]models.Reaction, error)
	CountDistinctReactors(ctx context.Context, targetID, targetType string, excludeUserID uint) (int64, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// GetReaction retrieves the actor's reaction on a target, if any
func (r *PostgresReactionRepository) GetReaction(ctx context.Context, actorID uint, targetID, targetType string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_id = ? AND target_type = ?", actorID, targetID, targetType).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &reaction, nil
}

// CreateReaction creates a new reaction row
func (r *PostgresReactionRepository) CreateReaction(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

// DeleteReaction removes the actor's reaction on a target. The delete is
// unscoped: idx_actor_target covers soft-deleted rows too, and the same
// actor must be able to react to the same target again.
func (r *PostgresReactionRepository) DeleteReaction(ctx context.Context, actorID uint, targetID, targetType string) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("actor_id = ? AND target_id = ? AND target_type = ?", actorID, targetID, targetType).
		Delete(&models.Reaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

// GetReactionsByTarget lists all reactions on a target
func (r *PostgresReactionRepository) GetReactionsByTarget(ctx context.Context, targetID, targetType string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.WithContext(ctx).
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Order("created_at DESC").
		Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// CountDistinctReactors counts distinct actors who reacted to the
// target, excluding the given user (the target owner, for notifications)
func (r *PostgresReactionRepository) CountDistinctReactors(ctx context.Context, targetID, targetType string, excludeUserID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("target_id = ? AND target_type = ? AND actor_id <> ?", targetID, targetType, excludeUserID).
		Distinct("actor_id").
		Count(&count).Error
	return count, err
}
