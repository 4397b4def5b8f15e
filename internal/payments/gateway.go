package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/metrics"
	"github.com/minhngdev/foodcourt-backend/pkg/momo"
)

// GatewayRequest carries what a gateway needs to start an online payment.
type GatewayRequest struct {
	Order       *models.Order
	Payment     *models.Payment
	RedirectURL string
	IPNURL      string
}

// GatewayResult is what a gateway hands back after creating a payment.
type GatewayResult struct {
	PayURL         string
	GatewayOrderID string
	RequestID      string
}

// Gateway starts an online payment with an external provider.
type Gateway interface {
	Method() enums.PaymentMethod
	Initiate(ctx context.Context, req GatewayRequest) (*GatewayResult, error)
}

// Registry resolves the gateway for a payment method.
type Registry struct {
	gateways map[enums.PaymentMethod]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	byMethod := make(map[enums.PaymentMethod]Gateway, len(gateways))
	for _, gw := range gateways {
		byMethod[gw.Method()] = gw
	}
	return &Registry{gateways: byMethod}
}

// Resolve returns the gateway for the method, or a validation error when no
// online gateway serves it.
func (r *Registry) Resolve(method enums.PaymentMethod) (Gateway, error) {
	gw, ok := r.gateways[method]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("no online gateway for payment method %s", method))
	}
	return gw, nil
}

type momoGateway struct {
	client *momo.Client
}

// NewMomoGateway wraps the MoMo client in the gateway interface.
func NewMomoGateway(client *momo.Client) Gateway {
	return &momoGateway{client: client}
}

func (g *momoGateway) Method() enums.PaymentMethod {
	return enums.PaymentMethodMomo
}

func (g *momoGateway) Initiate(ctx context.Context, req GatewayRequest) (*GatewayResult, error) {
	gatewayOrderID := momo.BuildOrderReference(req.Order.ID)
	requestID := uuid.NewString()

	result, err := g.client.CreatePayment(ctx, momo.CreateParams{
		Amount:      req.Payment.Amount.IntPart(),
		OrderID:     gatewayOrderID,
		RequestID:   requestID,
		OrderInfo:   fmt.Sprintf("FoodCourt order #%d", req.Order.ID),
		RedirectURL: req.RedirectURL,
		IPNURL:      req.IPNURL,
	})
	if err != nil {
		metrics.GatewayRequests.WithLabelValues("momo", "error").Inc()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "momo payment creation")
	}
	if result.ResultCode != momo.ResultCodeSuccess {
		metrics.GatewayRequests.WithLabelValues("momo", "rejected").Inc()
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("momo rejected payment creation: %s", result.Message))
	}

	metrics.GatewayRequests.WithLabelValues("momo", "ok").Inc()
	return &GatewayResult{
		PayURL:         result.PayURL,
		GatewayOrderID: gatewayOrderID,
		RequestID:      requestID,
	}, nil
}

// stubGateway reserves a payment method whose provider integration has not
// shipped. Initiation always fails with a validation error.
type stubGateway struct {
	method enums.PaymentMethod
}

// NewStubGateway registers a recognized but unimplemented payment method.
func NewStubGateway(method enums.PaymentMethod) Gateway {
	return &stubGateway{method: method}
}

func (g *stubGateway) Method() enums.PaymentMethod {
	return g.method
}

func (g *stubGateway) Initiate(ctx context.Context, req GatewayRequest) (*GatewayResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("online payment via %s is not yet supported", g.method))
}
