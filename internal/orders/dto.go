package orders

import (
	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// CreateItemInput is one requested line in a new order.
type CreateItemInput struct {
	FoodID   uint
	Quantity int
	Note     *string
}

// CreateInput carries everything needed to place an order.
type CreateInput struct {
	CustomerID      uint
	StoreID         uint
	PaymentMethod   enums.PaymentMethod
	DeliveryAddress string
	ShippingFee     decimal.Decimal
	Note            *string
	Items           []CreateItemInput
}

// TransitionInput identifies the order and the actor driving a status change.
type TransitionInput struct {
	OrderID        uint
	ActorAccountID uint
	ActorStoreID   *uint
	ActorRole      enums.Role
}

// ListInput filters an order listing for one actor.
type ListInput struct {
	CustomerID *uint
	StoreID    *uint
	Status     *enums.OrderStatus
	Limit      int
	Cursor     string
}
