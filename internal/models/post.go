package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a piece of content stored in MongoDB. Privacy and
// destination values are the string forms of visibility.PrivacyMode and
// visibility.DestinationKind.
type Post struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID         uint               `json:"owner_id" bson:"owner_id"`
	About           string             `json:"about" bson:"about"`
	Privacy         string             `json:"privacy" bson:"privacy"`
	SpecificFriends []uint             `json:"specific_friends,omitempty" bson:"specific_friends,omitempty"`
	ExcludedFriends []uint             `json:"excluded_friends,omitempty" bson:"excluded_friends,omitempty"`
	Destination     string             `json:"destination" bson:"destination"`
	DestinationID   uint               `json:"destination_id,omitempty" bson:"destination_id,omitempty"`
	Feeling         string             `json:"feeling,omitempty" bson:"feeling,omitempty"`
	Location        string             `json:"location,omitempty" bson:"location,omitempty"`
	ReactionsCount  int                `json:"reactions_count" bson:"reactions_count"`
	CommentsCount   int                `json:"comments_count" bson:"comments_count"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	About           string `json:"about" validate:"required,min=1,max=350"`
	Privacy         string `json:"privacy,omitempty" validate:"omitempty,oneof=PUBLIC FRIENDS FRIENDS_EXCEPT SPECIFIC_FRIENDS"`
	SpecificFriends []uint `json:"specific_friends,omitempty"`
	ExcludedFriends []uint `json:"excluded_friends,omitempty"`
	Destination     string `json:"destination,omitempty" validate:"omitempty,oneof=BIOGRAPHY FRIEND_WALL GROUP PAGE"`
	DestinationID   uint   `json:"destination_id,omitempty"`
	Feeling         string `json:"feeling,omitempty" validate:"omitempty,max=20"`
	Location        string `json:"location,omitempty" validate:"omitempty,max=60"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Only the owner may change privacy fields.
type UpdatePostRequest struct {
	About           string `json:"about,omitempty" validate:"omitempty,min=1,max=350"`
	Privacy         string `json:"privacy,omitempty" validate:"omitempty,oneof=PUBLIC FRIENDS FRIENDS_EXCEPT SPECIFIC_FRIENDS"`
	SpecificFriends []uint `json:"specific_friends,omitempty"`
	ExcludedFriends []uint `json:"excluded_friends,omitempty"`
}
