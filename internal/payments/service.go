package payments

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
)

// InitiateInput identifies the order and actor starting an online payment.
type InitiateInput struct {
	OrderID        uint
	ActorAccountID uint
	ActorRole      enums.Role
	RedirectURL    string
}

// InitiateResult is handed to the client so it can redirect to the gateway.
type InitiateResult struct {
	PaymentID      uint   `json:"payment_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	PayURL         string `json:"pay_url"`
	Amount         string `json:"amount"`
}

// Service starts online payments for pending orders.
type Service interface {
	Initiate(ctx context.Context, input InitiateInput) (*InitiateResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	tx       txRunner
	registry *Registry
	ipnURL   string
}

// NewService builds the payment initiation service. ipnURL is the absolute
// callback endpoint handed to gateways.
func NewService(repo Repository, tx txRunner, registry *Registry, ipnURL string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if registry == nil {
		return nil, fmt.Errorf("gateway registry required")
	}
	if ipnURL == "" {
		return nil, fmt.Errorf("ipn url required")
	}
	return &service{repo: repo, tx: tx, registry: registry, ipnURL: ipnURL}, nil
}

// Initiate creates a gateway payment for a pending order and stores the
// correlation id. A settled or closed payment is refused before any
// gateway call is made.
func (s *service) Initiate(ctx context.Context, input InitiateInput) (*InitiateResult, error) {
	if input.OrderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrderWithPayment(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if input.ActorRole != enums.RoleAdmin && order.CustomerID != input.ActorAccountID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to actor")
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is cancelled")
	}
	if order.PaymentMethod == enums.PaymentMethodCash {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash orders settle on delivery")
	}
	if order.Payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order has no settlement row")
	}
	if order.Payment.Status == enums.PaymentStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	if order.Payment.Status.Terminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("payment is closed with status %s", order.Payment.Status))
	}

	gateway, err := s.registry.Resolve(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	result, err := gateway.Initiate(ctx, GatewayRequest{
		Order:       order,
		Payment:     order.Payment,
		RedirectURL: input.RedirectURL,
		IPNURL:      s.ipnURL,
	})
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).RecordInitiation(ctx, order.Payment.ID, result.GatewayOrderID, result.PayURL)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment initiation")
	}

	return &InitiateResult{
		PaymentID:      order.Payment.ID,
		GatewayOrderID: result.GatewayOrderID,
		PayURL:         result.PayURL,
		Amount:         order.Payment.Amount.String(),
	}, nil
}
