package momowebhook

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
	"github.com/minhngdev/foodcourt-backend/pkg/metrics"
	"github.com/minhngdev/foodcourt-backend/pkg/momo"
	"github.com/minhngdev/foodcourt-backend/pkg/outbox"
)

type signatureVerifier interface {
	VerifyIPNSignature(payload momo.IPNPayload) bool
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service reconciles MoMo IPN callbacks against local payment state.
type Service struct {
	repo     Repository
	tx       txRunner
	verifier signatureVerifier
	outbox   outboxEmitter
	logg     *logger.Logger
}

// NewService builds the webhook reconciliation service.
func NewService(repo Repository, tx txRunner, verifier signatureVerifier, emitter outboxEmitter, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("webhook repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("signature verifier required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &Service{repo: repo, tx: tx, verifier: verifier, outbox: emitter, logg: logg}, nil
}

// HandleIPN verifies and applies one gateway callback. The payment row is
// locked for the duration so concurrent deliveries of the same callback
// serialize; replays of an applied outcome are accepted as no-ops.
func (s *Service) HandleIPN(ctx context.Context, payload momo.IPNPayload) error {
	if !s.verifier.VerifyIPNSignature(payload) {
		metrics.WebhookResults.WithLabelValues("signature_invalid").Inc()
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid webhook signature")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		payment, err := s.resolvePayment(ctx, repo, payload.OrderID)
		if err != nil {
			return err
		}

		if payload.Amount != payment.Amount.IntPart() {
			metrics.WebhookResults.WithLabelValues("amount_mismatch").Inc()
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("callback amount %d does not match payment amount %s", payload.Amount, payment.Amount))
		}

		if payment.Status.Terminal() {
			return s.handleReplay(payment, payload)
		}

		if payload.Succeeded() {
			return s.applySuccess(ctx, tx, repo, payment, payload)
		}
		return s.applyFailure(ctx, repo, payment, payload)
	})
	return err
}

func (s *Service) resolvePayment(ctx context.Context, repo Repository, gatewayOrderID string) (*models.Payment, error) {
	payment, err := repo.FindPaymentByTransactionID(ctx, gatewayOrderID)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve payment by transaction id")
	}

	// The correlation id may have been lost (e.g. the initiation update
	// never landed); fall back to the order id embedded in the reference.
	localID, ok := momo.ParseOrderReference(gatewayOrderID)
	if !ok {
		metrics.WebhookResults.WithLabelValues("unresolvable").Inc()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("no payment matches gateway order id %q", gatewayOrderID))
	}
	payment, err = repo.FindPaymentByOrderID(ctx, localID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.WebhookResults.WithLabelValues("unresolvable").Inc()
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no payment matches gateway order id %q", gatewayOrderID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve payment by order id")
	}
	return payment, nil
}

func (s *Service) handleReplay(payment *models.Payment, payload momo.IPNPayload) error {
	settled := payment.Status == enums.PaymentStatusCompleted
	if settled == payload.Succeeded() {
		metrics.WebhookResults.WithLabelValues("replay").Inc()
		return nil
	}
	metrics.WebhookResults.WithLabelValues("conflict").Inc()
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("payment already closed with status %s", payment.Status))
}

func (s *Service) applySuccess(ctx context.Context, tx *gorm.DB, repo Repository, payment *models.Payment, payload momo.IPNPayload) error {
	transID := strconv.FormatInt(payload.TransID, 10)
	settledAt := time.UnixMilli(payload.ResponseTime)
	if payload.ResponseTime <= 0 {
		settledAt = time.Now()
	}

	if err := repo.MarkCompleted(ctx, payment.ID, transID, settledAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment completed")
	}

	order, err := repo.FindOrder(ctx, payment.OrderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for settled payment")
	}

	// settlement implies the store has a live order to fulfil
	if err := repo.ConfirmOrderIfPending(ctx, order.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order for settled payment")
	}

	event := outbox.DomainEvent{
		EventType:   enums.EventPaymentSettled,
		AggregateID: payment.ID,
		Data: outbox.PaymentSettledData{
			PaymentID:     payment.ID,
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			TransactionID: transID,
			Amount:        payment.Amount.String(),
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit payment settled event")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"payment_id":     payment.ID,
			"order_id":       order.ID,
			"transaction_id": transID,
		})
		s.logg.Info(logCtx, "payment settled via webhook")
	}
	metrics.WebhookResults.WithLabelValues("completed").Inc()
	return nil
}

func (s *Service) applyFailure(ctx context.Context, repo Repository, payment *models.Payment, payload momo.IPNPayload) error {
	if err := repo.MarkFailed(ctx, payment.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"payment_id":  payment.ID,
			"result_code": payload.ResultCode,
			"message":     payload.Message,
		})
		s.logg.Warn(logCtx, "payment failed via webhook")
	}
	metrics.WebhookResults.WithLabelValues("failed").Inc()
	return nil
}
