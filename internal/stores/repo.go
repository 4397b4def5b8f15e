package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/pagination"
)

// Repository is the persistence surface for store tenants.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, store *models.Store) (*models.Store, error)
	Save(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uint) (*models.Store, error)
	FindByAccount(ctx context.Context, accountID uint) (*models.Store, error)
	List(ctx context.Context, filter ListInput) ([]models.Store, error)
}

// ListInput filters the store listing.
type ListInput struct {
	ApprovedOnly bool
	Query        string
	Limit        int
	Cursor       string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, store *models.Store) (*models.Store, error) {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

func (r *repository) Save(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) FindByAccount(ctx context.Context, accountID uint) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND active = ?", accountID, true).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) List(ctx context.Context, filter ListInput) ([]models.Store, error) {
	query := r.db.WithContext(ctx).Where("active = ?", true)
	if filter.ApprovedOnly {
		query = query.Where("approved = ?", true)
	}
	if filter.Query != "" {
		query = query.Where("name LIKE ?", "%"+filter.Query+"%")
	}

	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var stores []models.Store
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&stores).Error
	return stores, err
}
