package models

import "gorm.io/gorm"

// Friend request statuses. An accepted request is what makes two users
// friends; the relation is symmetric and queried in both directions.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

// FriendRequest represents a friend request between two users
type FriendRequest struct {
	gorm.Model
	SenderID   uint   `json:"sender_id" gorm:"index;uniqueIndex:idx_friend_pair"`
	ReceiverID uint   `json:"receiver_id" gorm:"index;uniqueIndex:idx_friend_pair"`
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending'"`
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

// UpdateFriendRequest defines the request body for accepting/rejecting a friend request
type UpdateFriendRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
