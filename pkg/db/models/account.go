package models

import (
	"time"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Account is the canonical identity entity. The role enum replaces the
// original platform's duck-typed actor probing.
type Account struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"column:email;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:'CUSTOMER'" json:"role"`
	Phone        *string    `gorm:"column:phone" json:"phone,omitempty"`
	AvatarURL    *string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	Verified     bool       `gorm:"column:verified;not null;default:false" json:"verified"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	Base
}
