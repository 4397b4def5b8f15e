package outbox

import (
	"encoding/json"
	"time"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// ActorRef identifies the account that produced the event.
type ActorRef struct {
	AccountID uint       `json:"accountId"`
	StoreID   *uint      `json:"storeId,omitempty"`
	Role      enums.Role `json:"role,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events
// and delivered to consumers verbatim.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// FoodPublishedData is the payload body for catalog.food.published events.
type FoodPublishedData struct {
	FoodID    uint   `json:"foodId"`
	StoreID   uint   `json:"storeId"`
	StoreName string `json:"storeName"`
	FoodName  string `json:"foodName"`
}

// MenuPublishedData is the payload body for catalog.menu.published events.
type MenuPublishedData struct {
	MenuID    uint   `json:"menuId"`
	StoreID   uint   `json:"storeId"`
	StoreName string `json:"storeName"`
	MenuName  string `json:"menuName"`
}

// PaymentSettledData is the payload body for payments.payment.settled events.
type PaymentSettledData struct {
	PaymentID     uint   `json:"paymentId"`
	OrderID       uint   `json:"orderId"`
	CustomerID    uint   `json:"customerId"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
}
