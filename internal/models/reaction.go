package models

import "gorm.io/gorm"

// Reaction kinds.
const (
	ReactionLike  = "LIKE"
	ReactionLove  = "LOVE"
	ReactionCare  = "CARE"
	ReactionHaha  = "HAHA"
	ReactionSad   = "SAD"
	ReactionAngry = "ANGRY"
)

// Reaction target types.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Reaction represents a user's reaction to a post or a comment. The
// composite unique index enforces at most one reaction per (actor, target);
// a repeat reaction by the same actor removes the row instead of adding a
// second one.
type Reaction struct {
	gorm.Model
	ActorID    uint   `json:"actor_id" gorm:"index;uniqueIndex:idx_actor_target"`
	TargetID   string `json:"target_id" gorm:"index;uniqueIndex:idx_actor_target"`
	TargetType string `json:"target_type" gorm:"size:10;uniqueIndex:idx_actor_target"`
	Kind       string `json:"kind" gorm:"size:5"`
}

// CreateReactionRequest defines the request body for reacting to a post or comment
type CreateReactionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=LIKE LOVE CARE HAHA SAD ANGRY"`
}
