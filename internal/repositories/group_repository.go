package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// GroupRepository defines the interface for group and membership operations
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	CreateMembership(ctx context.Context, membership *models.Membership) error
	GetMembership(ctx context.Context, userID, groupID uint) (*models.Membership, error)
	ActivateMembership(ctx context.Context, userID, groupID uint) error
	DeleteMembership(ctx context.Context, userID, groupID uint) error
	GetGroupMembers(ctx context.Context, groupID uint) ([]models.User, error)
	IsActiveMember(ctx context.Context, userID, groupID uint) (bool, error)
	IsGroupAdmin(ctx context.Context, userID, groupID uint) (bool, error)
}

// PostgresGroupRepository implements GroupRepository for PostgreSQL
type PostgresGroupRepository struct {
	db *gorm.DB
}

// NewPostgresGroupRepository creates a new PostgresGroupRepository
func NewPostgresGroupRepository(db *gorm.DB) *PostgresGroupRepository {
	return &PostgresGroupRepository{db: db}
}

func (r *PostgresGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresGroupRepository) GetGroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresGroupRepository) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug_name = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &group, nil
}

// CreateMembership inserts a membership row, enforcing at most one per
// (user, group).
func (r *PostgresGroupRepository) CreateMembership(ctx context.Context, membership *models.Membership) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND group_id = ?", membership.UserID, membership.GroupID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errs.MembershipExists
	}
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *PostgresGroupRepository) GetMembership(ctx context.Context, userID, groupID uint) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &membership, nil
}

// ActivateMembership confirms a pending membership.
func (r *PostgresGroupRepository) ActivateMembership(ctx context.Context, userID, groupID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Update("is_active", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

// DeleteMembership removes the membership row. Unscoped so a user who
// leaves can rejoin; idx_user_group covers soft-deleted rows.
func (r *PostgresGroupRepository) DeleteMembership(ctx context.Context, userID, groupID uint) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

func (r *PostgresGroupRepository) GetGroupMembers(ctx context.Context, groupID uint) ([]models.User, error) {
	var users []models.User
	subQuery := r.db.Table("memberships").Select("user_id").
		Where("group_id = ? AND is_active = ? AND deleted_at IS NULL", groupID, true)
	if err := r.db.WithContext(ctx).Where("id IN (?)", subQuery).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresGroupRepository) IsActiveMember(ctx context.Context, userID, groupID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND group_id = ? AND is_active = ?", userID, groupID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresGroupRepository) IsGroupAdmin(ctx context.Context, userID, groupID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND group_id = ? AND is_admin = ? AND is_active = ?", userID, groupID, true, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
