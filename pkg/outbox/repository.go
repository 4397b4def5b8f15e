package outbox

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Repository persists and drains outbox rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes an event row inside the caller's transaction.
func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchPending returns the oldest unpublished events up to limit, skipping
// rows that have exhausted their attempts.
func (r *Repository) FetchPending(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.
		Where("status = ?", enums.OutboxStatusPending).
		Where("attempts < ?", maxAttempts).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkPublished flips the row to published and records the publish time.
func (r *Repository) MarkPublished(id uuid.UUID) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.OutboxStatusPublished,
			"published_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// MarkFailed increments the attempt counter and records the last error.
// Rows that reach maxAttempts are parked as failed.
func (r *Repository) MarkFailed(id uuid.UUID, cause error, maxAttempts int) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error": msg,
			"attempts":   gorm.Expr("attempts + 1"),
		}).Error
	if err != nil {
		return err
	}
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ? AND attempts >= ?", id, maxAttempts).
		Update("status", enums.OutboxStatusFailed).Error
}
