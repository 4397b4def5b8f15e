package enums

// OutboxStatus tracks whether an event row has been shipped to the broker.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// EventType identifies a domain event carried through the outbox.
type EventType string

const (
	EventFoodPublished  EventType = "catalog.food.published"
	EventMenuPublished  EventType = "catalog.menu.published"
	EventPaymentSettled EventType = "payments.payment.settled"
)
