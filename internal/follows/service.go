package follows

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dbpkg "github.com/minhngdev/foodcourt-backend/pkg/db"
	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
)

// Repository is the persistence surface for store subscriptions.
type Repository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, customerID, storeID uint) (bool, error)
	ListStoresForCustomer(ctx context.Context, customerID uint) ([]models.Store, error)
	ListFollowerAccounts(ctx context.Context, storeID uint) ([]models.Account, error)
	StoreExists(ctx context.Context, storeID uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *repository) Delete(ctx context.Context, customerID, storeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("customer_id = ? AND store_id = ?", customerID, storeID).
		Delete(&models.Follow{})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) ListStoresForCustomer(ctx context.Context, customerID uint) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.store_id = stores.id").
		Where("follows.customer_id = ? AND stores.active = ?", customerID, true).
		Order("follows.created_at DESC").
		Find(&stores).Error
	return stores, err
}

func (r *repository) ListFollowerAccounts(ctx context.Context, storeID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.customer_id = accounts.id").
		Where("follows.store_id = ? AND accounts.active = ?", storeID, true).
		Find(&accounts).Error
	return accounts, err
}

func (r *repository) StoreExists(ctx context.Context, storeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ? AND active = ? AND approved = ?", storeID, true, true).
		Count(&count).Error
	return count > 0, err
}

// Service manages customer subscriptions to store announcements.
type Service interface {
	Follow(ctx context.Context, customerID, storeID uint) error
	Unfollow(ctx context.Context, customerID, storeID uint) error
	ListFollowed(ctx context.Context, customerID uint) ([]models.Store, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("follows repository required")
	}
	return &service{repo: repo}, nil
}

// Follow subscribes a customer to a store. Following twice is a no-op.
func (s *service) Follow(ctx context.Context, customerID, storeID uint) error {
	exists, err := s.repo.StoreExists(ctx, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	err = s.repo.Create(ctx, &models.Follow{CustomerID: customerID, StoreID: storeID})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create follow")
	}
	return nil
}

func (s *service) Unfollow(ctx context.Context, customerID, storeID uint) error {
	removed, err := s.repo.Delete(ctx, customerID, storeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete follow")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "not following this store")
	}
	return nil
}

func (s *service) ListFollowed(ctx context.Context, customerID uint) ([]models.Store, error) {
	stores, err := s.repo.ListStoresForCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followed stores")
	}
	return stores, nil
}
