package models

import "gorm.io/gorm"

// Comment represents a comment on a post. A comment has no privacy mode of
// its own: its audience is always the parent post's audience.
type Comment struct {
	gorm.Model
	PostID         string `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID         uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Text           string `json:"text"`
	ReactionsCount int    `json:"reactions_count" gorm:"default:0"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
