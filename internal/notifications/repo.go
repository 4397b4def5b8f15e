package notifications

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/pagination"
)

// Repository is the persistence surface for in-app notifications.
type Repository interface {
	CreateBatch(ctx context.Context, rows []models.Notification) error
	ListByAccount(ctx context.Context, accountID uint, limit int, cursor string) ([]models.Notification, error)
	MarkRead(ctx context.Context, accountID, notificationID uint, at time.Time) (bool, error)
	UnreadCount(ctx context.Context, accountID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, rows []models.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ListByAccount(ctx context.Context, accountID uint, limit int, cursorStr string) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)

	cursor, err := pagination.ParseCursor(cursorStr)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Notification
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) MarkRead(ctx context.Context, accountID, notificationID uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND account_id = ? AND read_at IS NULL", notificationID, accountID).
		Update("read_at", at)
	return result.RowsAffected > 0, result.Error
}

func (r *repository) UnreadCount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("account_id = ? AND read_at IS NULL", accountID).
		Count(&count).Error
	return count, err
}
