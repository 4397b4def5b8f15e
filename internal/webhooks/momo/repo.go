package momowebhook

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Repository is the persistence surface for webhook reconciliation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	FindPaymentByOrderID(ctx context.Context, orderID uint) (*models.Payment, error)
	FindOrder(ctx context.Context, orderID uint) (*models.Order, error)
	MarkCompleted(ctx context.Context, paymentID uint, transactionID string, settledAt time.Time) error
	MarkFailed(ctx context.Context, paymentID uint) error
	ConfirmOrderIfPending(ctx context.Context, orderID uint) error
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

func (r *repository) locked(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	// sqlite has no row locks; serialization there comes from its write lock.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

func (r *repository) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.locked(ctx).
		Where("transaction_id = ?", transactionID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindPaymentByOrderID(ctx context.Context, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.locked(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) MarkCompleted(ctx context.Context, paymentID uint, transactionID string, settledAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"status":         enums.PaymentStatusCompleted,
			"transaction_id": transactionID,
			"payment_date":   settledAt,
		}).Error
}

func (r *repository) ConfirmOrderIfPending(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPending).
		Update("status", enums.OrderStatusConfirmed).Error
}

func (r *repository) MarkFailed(ctx context.Context, paymentID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Update("status", enums.PaymentStatusFailed).Error
}
