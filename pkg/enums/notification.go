package enums

// NotificationType labels the catalog change a notification announces.
type NotificationType string

const (
	NotificationTypeNewFood NotificationType = "NEW_FOOD"
	NotificationTypeNewMenu NotificationType = "NEW_MENU"
	NotificationTypePayment NotificationType = "PAYMENT"
)
