package models

import "time"

// Notification represents a user notification. One row exists per
// (recipient, type, object): aggregating types evolve their single row as
// more actors interact, non-aggregating types never collide because their
// object ID is unique per event.
type Notification struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Type               string    `json:"type" gorm:"size:20;uniqueIndex:idx_notification_key"`
	RecipientID        uint      `json:"recipient_id" gorm:"index;uniqueIndex:idx_notification_key"`
	ObjectID           string    `json:"object_id" gorm:"uniqueIndex:idx_notification_key"`
	ActorID            uint      `json:"actor_id" gorm:"index"` // the last actor for aggregating types
	ActorName          string    `json:"actor_name"`
	DistinctActorCount int       `json:"distinct_actor_count" gorm:"default:1"`
	Message            string    `json:"message"`
	IsRead             bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt          time.Time `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time `json:"updated_at"`
}
