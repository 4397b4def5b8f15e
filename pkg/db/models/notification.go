package models

import (
	"time"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to accounts.
type Notification struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	AccountID uint                   `gorm:"column:account_id;not null;index" json:"account_id"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null" json:"type"`
	Title     string                 `gorm:"column:title;not null" json:"title"`
	Message   string                 `gorm:"column:message;not null" json:"message"`
	RelatedID *uint                  `gorm:"column:related_id" json:"related_id,omitempty"`
	ReadAt    *time.Time             `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
