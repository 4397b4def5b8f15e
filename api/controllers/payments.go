package controllers

import (
	"net/http"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/payments"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

type paymentInitiateRequest struct {
	OrderID     uint   `json:"order_id" validate:"required"`
	RedirectURL string `json:"redirect_url,omitempty" validate:"omitempty,url"`
}

// PaymentInitiate starts an online payment for a pending order and returns
// the gateway pay URL.
func PaymentInitiate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentInitiateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Initiate(r.Context(), payments.InitiateInput{
			OrderID:        payload.OrderID,
			ActorAccountID: middleware.AccountIDFromContext(r.Context()),
			ActorRole:      middleware.RoleFromContext(r.Context()),
			RedirectURL:    payload.RedirectURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
