package models

import "gorm.io/gorm"

// Page is a public presence (business, community) users can like and be
// invited to.
type Page struct {
	gorm.Model
	Name      string `json:"name"`
	SlugName  string `json:"slug_name" gorm:"uniqueIndex;size:60"`
	About     string `json:"about,omitempty"`
	CreatorID uint   `json:"creator_id" gorm:"index"`
}

// PageLike links a user to a page they like. One row per (user, page).
type PageLike struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"index;uniqueIndex:idx_user_page"`
	PageID uint `json:"page_id" gorm:"index;uniqueIndex:idx_user_page"`
}

// PageInvitation records an invitation to like a page.
type PageInvitation struct {
	gorm.Model
	PageID     uint `json:"page_id" gorm:"index"`
	SenderID   uint `json:"sender_id" gorm:"index"`
	ReceiverID uint `json:"receiver_id" gorm:"index"`
}

// CreatePageRequest defines the request body for creating a page
type CreatePageRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=130"`
	SlugName string `json:"slug_name" validate:"required,min=2,max=60"`
	About    string `json:"about,omitempty" validate:"omitempty,max=200"`
}

// PageInvitationRequest defines the request body for inviting a user to like a page
type PageInvitationRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
