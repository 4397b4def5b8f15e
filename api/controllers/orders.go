package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/orders"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

type orderItemRequest struct {
	FoodID   uint    `json:"food_id" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Note     *string `json:"note,omitempty"`
}

type orderCreateRequest struct {
	StoreID         uint               `json:"store_id" validate:"required"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=CASH MOMO PAYPAL STRIPE ZALOPAY"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	ShippingFee     decimal.Decimal    `json:"shipping_fee"`
	Note            *string            `json:"note,omitempty"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderCreate places an order for the authenticated customer.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.CreateItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, orders.CreateItemInput{
				FoodID:   item.FoodID,
				Quantity: item.Quantity,
				Note:     item.Note,
			})
		}

		order, err := svc.Create(r.Context(), orders.CreateInput{
			CustomerID:      middleware.AccountIDFromContext(r.Context()),
			StoreID:         payload.StoreID,
			PaymentMethod:   enums.PaymentMethod(payload.PaymentMethod),
			DeliveryAddress: payload.DeliveryAddress,
			ShippingFee:     payload.ShippingFee,
			Note:            payload.Note,
			Items:           items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func transitionInput(r *http.Request) (orders.TransitionInput, error) {
	orderID, err := validators.ParseUintParam(r, "orderID")
	if err != nil {
		return orders.TransitionInput{}, err
	}
	return orders.TransitionInput{
		OrderID:        orderID,
		ActorAccountID: middleware.AccountIDFromContext(r.Context()),
		ActorStoreID:   middleware.StoreIDFromContext(r.Context()),
		ActorRole:      middleware.RoleFromContext(r.Context()),
	}, nil
}

// OrderGet returns one order visible to the caller.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := transitionInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func orderTransition(action func(r *http.Request) (any, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := action(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrderConfirm moves a pending order to CONFIRMED. Store side only.
func OrderConfirm(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(func(r *http.Request) (any, error) {
		input, err := transitionInput(r)
		if err != nil {
			return nil, err
		}
		return svc.Confirm(r.Context(), input)
	}, logg)
}

// OrderDeliver moves a confirmed order to DELIVERING. Store side only.
func OrderDeliver(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(func(r *http.Request) (any, error) {
		input, err := transitionInput(r)
		if err != nil {
			return nil, err
		}
		return svc.Deliver(r.Context(), input)
	}, logg)
}

// OrderComplete closes a delivering order. Store side only.
func OrderComplete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(func(r *http.Request) (any, error) {
		input, err := transitionInput(r)
		if err != nil {
			return nil, err
		}
		return svc.Complete(r.Context(), input)
	}, logg)
}

// OrderCancel cancels a pending order and closes its payment.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(func(r *http.Request) (any, error) {
		input, err := transitionInput(r)
		if err != nil {
			return nil, err
		}
		return svc.Cancel(r.Context(), input)
	}, logg)
}

// OrderList lists the caller's orders; store tokens see their store's orders.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.ListInput{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(strings.ToUpper(raw))
			input.Status = &status
		}

		if storeID := middleware.StoreIDFromContext(r.Context()); storeID != nil {
			input.StoreID = storeID
		} else {
			accountID := middleware.AccountIDFromContext(r.Context())
			input.CustomerID = &accountID
		}

		list, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
