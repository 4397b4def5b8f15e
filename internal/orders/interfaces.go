package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Repository is the persistence surface for orders and their settlement rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)

	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status enums.OrderStatus) error
	UpdatePaymentStatusByOrder(ctx context.Context, orderID uint, status enums.PaymentStatus) error

	FindStore(ctx context.Context, id uint) (*models.Store, error)
	FindFoodsForStore(ctx context.Context, storeID uint, foodIDs []uint) ([]models.Food, error)

	ListByCustomer(ctx context.Context, customerID uint, filter ListInput) ([]models.Order, error)
	ListByStore(ctx context.Context, storeID uint, filter ListInput) ([]models.Order, error)
}

// Service defines order placement and lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, input TransitionInput) (*models.Order, error)
	Confirm(ctx context.Context, input TransitionInput) (*models.Order, error)
	Deliver(ctx context.Context, input TransitionInput) (*models.Order, error)
	Complete(ctx context.Context, input TransitionInput) (*models.Order, error)
	Cancel(ctx context.Context, input TransitionInput) (*models.Order, error)
	List(ctx context.Context, input ListInput) ([]models.Order, error)
}
