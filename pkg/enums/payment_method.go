package enums

// PaymentMethod enumerates the supported ways an order can be paid.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodMomo    PaymentMethod = "MOMO"
	PaymentMethodPaypal  PaymentMethod = "PAYPAL"
	PaymentMethodStripe  PaymentMethod = "STRIPE"
	PaymentMethodZalopay PaymentMethod = "ZALOPAY"
)

// Valid reports whether the method is one of the declared constants.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMomo, PaymentMethodPaypal, PaymentMethodStripe, PaymentMethodZalopay:
		return true
	default:
		return false
	}
}
