package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// OutboxEvent is a domain event persisted in the same transaction as the
// write that produced it, shipped to the broker by the outbox publisher.
type OutboxEvent struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EventType   enums.EventType    `gorm:"column:event_type;type:text;not null" json:"event_type"`
	AggregateID uint               `gorm:"column:aggregate_id;not null" json:"aggregate_id"`
	Payload     []byte             `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	Status      enums.OutboxStatus `gorm:"column:status;type:text;not null;default:'pending';index" json:"status"`
	Attempts    int                `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError   *string            `gorm:"column:last_error" json:"last_error,omitempty"`
	PublishedAt *time.Time         `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
