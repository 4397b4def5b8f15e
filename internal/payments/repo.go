package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
)

// Repository is the persistence surface for payment initiation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrderWithPayment(ctx context.Context, orderID uint) (*models.Order, error)
	RecordInitiation(ctx context.Context, paymentID uint, gatewayOrderID, payURL string) error
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

func (r *repository) FindOrderWithPayment(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Payment").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) RecordInitiation(ctx context.Context, paymentID uint, gatewayOrderID, payURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"transaction_id": gatewayOrderID,
			"payment_url":    payURL,
		}).Error
}
