package models

import "gorm.io/gorm"

// Group is where members share content with each other. Content posted to
// a private group is only visible to its active members, regardless of the
// post's own privacy mode.
type Group struct {
	gorm.Model
	Name      string `json:"name"`
	SlugName  string `json:"slug_name" gorm:"uniqueIndex;size:60"`
	About     string `json:"about,omitempty"`
	IsPublic  bool   `json:"is_public" gorm:"default:true"`
	CreatorID uint   `json:"creator_id" gorm:"index"`
}

// Membership holds the relationship between a user and a group. A pending
// member (is_active=false) is awaiting confirmation by a group admin; only
// active members may interact in the group. At most one row exists per
// (user, group).
type Membership struct {
	gorm.Model
	UserID      uint  `json:"user_id" gorm:"index;uniqueIndex:idx_user_group"`
	GroupID     uint  `json:"group_id" gorm:"index;uniqueIndex:idx_user_group"`
	IsAdmin     bool  `json:"is_admin" gorm:"default:false"`
	IsActive    bool  `json:"is_active" gorm:"default:false"`
	InvitedByID *uint `json:"invited_by_id,omitempty"`
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=130"`
	SlugName string `json:"slug_name" validate:"required,min=2,max=60"`
	About    string `json:"about,omitempty" validate:"omitempty,max=200"`
	IsPublic *bool  `json:"is_public,omitempty"`
}

// GroupInvitationRequest defines the request body for inviting a user to a group
type GroupInvitationRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
