package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account row. No soft delete: account removal is final, and
// the unique username/email indexes must become reusable when it happens.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:60"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	About     string    `json:"about,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCompact is the trimmed user representation embedded in feed items,
// reaction lists and notifications.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ToCompact converts a full User row into its compact form.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Name: u.Name}
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=60"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	About    string `json:"about,omitempty" validate:"omitempty,max=200"`
}

type UpdateUserRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	About string `json:"about,omitempty" validate:"omitempty,max=200"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
