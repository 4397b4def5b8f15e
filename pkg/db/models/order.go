package models

import (
	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Order is a customer's purchase from a single store. The total is derived
// from item snapshots plus the shipping fee; it is never stored.
type Order struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	CustomerID      uint                `gorm:"column:customer_id;not null;index" json:"customer_id"`
	StoreID         uint                `gorm:"column:store_id;not null;index" json:"store_id"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'PENDING'" json:"status"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'CASH'" json:"payment_method"`
	ShippingFee     decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(10,2);not null;default:0" json:"shipping_fee"`
	DeliveryAddress string              `gorm:"column:delivery_address;not null" json:"delivery_address"`
	Note            *string             `gorm:"column:note" json:"note,omitempty"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payment         *Payment            `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	Base
}

// TotalAmount computes the authoritative order total from the snapshotted
// item prices plus the shipping fee.
func (o Order) TotalAmount() decimal.Decimal {
	total := o.ShippingFee
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
