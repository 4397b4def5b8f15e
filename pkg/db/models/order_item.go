package models

import "github.com/shopspring/decimal"

// OrderItem snapshots a food's price at order time so later price changes do
// not alter historical totals. The food reference is protect-on-delete.
type OrderItem struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	OrderID  uint            `gorm:"column:order_id;not null;index" json:"order_id"`
	FoodID   uint            `gorm:"column:food_id;not null;index" json:"food_id"`
	Quantity int             `gorm:"column:quantity;not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Note     *string         `gorm:"column:note" json:"note,omitempty"`
	Food     *Food           `gorm:"foreignKey:FoodID;constraint:OnDelete:RESTRICT" json:"food,omitempty"`
	Base
}
