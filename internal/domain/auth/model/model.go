package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const DefaultProfilePictureID = "avatar"

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName        string    `gorm:"not null"`
	LastName         string    `gorm:"not null"`
	Email            string    `gorm:"uniqueIndex;not null"`
	PasswordHash     string    `gorm:"not null"`
	Role             Role      `gorm:"not null;default:user"`
	ProfilePictureID string    `gorm:"not null;default:avatar"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Payload is what a signed token says about its bearer.
type Payload struct {
	UserID uuid.UUID
	Role   Role
}

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserId       uuid.UUID
}
