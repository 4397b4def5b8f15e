package models

import "time"

// Base carries the soft-deactivation flag and timestamps shared by every
// domain row. Rows are never hard-deleted; Active=false retires them.
type Base struct {
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
