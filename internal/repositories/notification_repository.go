package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/notify"
)

// NotificationRepository defines the interface for notification
// operations. The keyed methods (GetByKey/Create/Update) make it the
// persistence behind the notification aggregator; the rest serve the
// notifications API.
type NotificationRepository interface {
	GetByKey(ctx context.Context, recipientID uint, t notify.Type, objectID string) (*models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	Update(ctx context.Context, n *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgreSQL-backed
// NotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) GetByKey(ctx context.Context, recipientID uint, t notify.Type, objectID string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND type = ? AND object_id = ?", recipientID, string(t), objectID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *postgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *postgresNotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error
}
