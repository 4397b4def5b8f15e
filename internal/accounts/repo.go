package accounts

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
)

// Repository is the persistence surface for identities.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	FindStoreByAccount(ctx context.Context, accountID uint) (*models.Store, error)
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

func (r *repository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("username = ? AND active = ?", username, true).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

func (r *repository) FindStoreByAccount(ctx context.Context, accountID uint) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND active = ?", accountID, true).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}
