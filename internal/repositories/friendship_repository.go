package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// FriendshipRepository defines the interface for friendship data operations.
// Friendship is derived from accepted friend requests and is symmetric:
// every lookup checks both directions.
type FriendshipRepository interface {
	SendFriendRequest(ctx context.Context, req *models.FriendRequest) error
	GetFriendRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetUserPendingFriendRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	GetUserFriends(ctx context.Context, userID uint) ([]models.User, error)
	UpdateFriendRequestStatus(ctx context.Context, id uint, status string) error
	DeleteFriendship(ctx context.Context, userID, friendID uint) error
	AreFriends(ctx context.Context, a, b uint) (bool, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// SendFriendRequest creates a new pending friend request, rejecting
// duplicates in either direction.
func (r *PostgresFriendshipRepository) SendFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	var existing models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			req.SenderID, req.ReceiverID, req.ReceiverID, req.SenderID).
		First(&existing).Error

	if err == nil {
		switch existing.Status {
		case models.FriendRequestPending:
			return errs.FriendRequestExists
		case models.FriendRequestAccepted:
			return errs.AlreadyFriends
		}
		// A rejected pair may try again; replace the old row.
		if err := r.db.WithContext(ctx).Unscoped().Delete(&existing).Error; err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	req.Status = models.FriendRequestPending
	return r.db.WithContext(ctx).Create(req).Error
}

// GetFriendRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetFriendRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound
		}
		return nil, err
	}
	return &req, nil
}

// GetUserPendingFriendRequests retrieves all pending friend requests for a user
func (r *PostgresFriendshipRepository) GetUserPendingFriendRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetUserFriends retrieves all accepted friends for a user
func (r *PostgresFriendshipRepository) GetUserFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	subQuery1 := r.db.Table("friend_requests").Select("receiver_id").
		Where("sender_id = ? AND status = ? AND deleted_at IS NULL", userID, models.FriendRequestAccepted)
	subQuery2 := r.db.Table("friend_requests").Select("sender_id").
		Where("receiver_id = ? AND status = ? AND deleted_at IS NULL", userID, models.FriendRequestAccepted)

	if err := r.db.WithContext(ctx).
		Where("id IN (?) OR id IN (?)", subQuery1, subQuery2).
		Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// UpdateFriendRequestStatus updates the status of a friend request
func (r *PostgresFriendshipRepository) UpdateFriendRequestStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).Where("id = ?", id).
		Update("status", status).Error
}

// DeleteFriendship removes the accepted request between two users
// (unfriend). Unscoped for the same reason as the rejected-pair path in
// SendFriendRequest: idx_friend_pair covers soft-deleted rows, and the
// pair must be able to re-friend later.
func (r *PostgresFriendshipRepository) DeleteFriendship(ctx context.Context, userID, friendID uint) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
			userID, friendID, friendID, userID, models.FriendRequestAccepted).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound
	}
	return nil
}

// AreFriends reports whether an accepted request exists between the pair,
// in either direction.
func (r *PostgresFriendshipRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
			a, b, b, a, models.FriendRequestAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
