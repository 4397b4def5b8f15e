package reporting

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Repository loads the raw rows reports are computed from. Aggregation
// happens in the service so the numbers stay portable across dialects.
type Repository interface {
	CompletedOrders(ctx context.Context, storeID *uint, from, to time.Time) ([]models.Order, error)
	StoreCategories(ctx context.Context, storeID uint) ([]models.Category, error)
	CountAccounts(ctx context.Context, role enums.Role) (int64, error)
	CountStores(ctx context.Context, approvedOnly bool) (int64, error)
	StoreExists(ctx context.Context, storeID uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CompletedOrders(ctx context.Context, storeID *uint, from, to time.Time) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.OrderStatusCompleted).
		Where("created_at >= ? AND created_at < ?", from, to)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Preload("Items.Food").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) StoreCategories(ctx context.Context, storeID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Distinct("categories.*").
		Joins("JOIN foods ON foods.category_id = categories.id").
		Where("foods.store_id = ? AND foods.active = ?", storeID, true).
		Order("categories.id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *repository) CountAccounts(ctx context.Context, role enums.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("role = ? AND active = ?", role, true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountStores(ctx context.Context, approvedOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("active = ?", true)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repository) StoreExists(ctx context.Context, storeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ? AND active = ?", storeID, true).
		Count(&count).Error
	return count > 0, err
}
