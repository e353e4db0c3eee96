package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// PageRepository defines the interface for page operations
type PageRepository interface {
	CreatePage(ctx context.Context, page *models.Page) error
	GetPageByID(ctx context.Context, id uint) (*models.Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*models.Page, error)
	CreatePageLike(ctx context.Context, like *models.PageLike) error
	DeletePageLike(ctx context.Context, userID, pageID uint) error
	CreatePageInvitation(ctx context.Context, invitation *models.PageInvitation) error
	GetPageLikers(ctx context.Context, pageID uint) ([]models.User, error)
}

// PostgresPageRepository implements PageRepository for PostgreSQL
type PostgresPageRepository struct {
	db *gorm.DB
}

// NewPostgresPageRepository creates a new PostgresPageRepository
func NewPostgresPageRepository(db *gorm.DB) *PostgresPageRepository {
	return &PostgresPageRepository{db: db}
}

func (r *PostgresPageRepository) CreatePage(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *PostgresPageRepository) GetPageByID(ctx context.Context, id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *PostgresPageRepository) GetPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).Where("slug_name = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *PostgresPageRepository) CreatePageLike(ctx context.Context, like *models.PageLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// DeletePageLike removes the like row. Unscoped so the user can like the
// page again later; idx_user_page covers soft-deleted rows.
func (r *PostgresPageRepository) DeletePageLike(ctx context.Context, userID, pageID uint) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND page_id = ?", userID, pageID).
		Delete(&models.PageLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

func (r *PostgresPageRepository) CreatePageInvitation(ctx context.Context, invitation *models.PageInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *PostgresPageRepository) GetPageLikers(ctx context.Context, pageID uint) ([]models.User, error) {
	var users []models.User
	subQuery := r.db.Table("page_likes").Select("user_id").
		Where("page_id = ? AND deleted_at IS NULL", pageID)
	if err := r.db.WithContext(ctx).Where("id IN (?)", subQuery).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
