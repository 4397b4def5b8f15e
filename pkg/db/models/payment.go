package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Payment tracks settlement for exactly one order. TransactionID initially
// holds the locally generated gateway order id; the webhook overwrites it
// with the gateway's own transaction id once the payment settles.
type Payment struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	OrderID       uint                `gorm:"column:order_id;not null;uniqueIndex" json:"order_id"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'PENDING'" json:"status"`
	TransactionID *string             `gorm:"column:transaction_id;index" json:"transaction_id,omitempty"`
	PaymentURL    *string             `gorm:"column:payment_url" json:"payment_url,omitempty"`
	PaymentDate   *time.Time          `gorm:"column:payment_date" json:"payment_date,omitempty"`
	Base
}
