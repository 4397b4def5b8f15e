package momowebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/config"
	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/momo"
	"github.com/minhngdev/foodcourt-backend/pkg/outbox"
)

const (
	testAccessKey = "access-key"
	testSecretKey = "secret-key"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:momowebhook_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.Payment{}, &models.OutboxEvent{}))
	return db
}

func newVerifier(t *testing.T) *momo.Client {
	t.Helper()
	client, err := momo.NewClient(config.MomoConfig{
		Endpoint:    "https://example.com",
		PartnerCode: "MOMO_TEST",
		AccessKey:   testAccessKey,
		SecretKey:   testSecretKey,
		RequestType: "captureWallet",
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return client
}

func newService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	emitter := outbox.NewService(outbox.NewRepository(db), nil)
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, newVerifier(t), emitter, nil)
	require.NoError(t, err)
	return svc
}

func seedPendingPayment(t *testing.T, db *gorm.DB, gatewayOrderID string) (*models.Order, *models.Payment) {
	t.Helper()
	order := models.Order{
		CustomerID:      1,
		StoreID:         1,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   enums.PaymentMethodMomo,
		DeliveryAddress: "34 Tran Hung Dao",
	}
	require.NoError(t, db.Create(&order).Error)

	payment := models.Payment{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(145000),
		Status:  enums.PaymentStatusPending,
	}
	if gatewayOrderID != "" {
		payment.TransactionID = &gatewayOrderID
	}
	require.NoError(t, db.Create(&payment).Error)
	return &order, &payment
}

func signedPayload(orderID string, amount int64, resultCode int) momo.IPNPayload {
	payload := momo.IPNPayload{
		PartnerCode:  "MOMO_TEST",
		OrderID:      orderID,
		RequestID:    "req-1",
		Amount:       amount,
		OrderInfo:    "FoodCourt order",
		OrderType:    "momo_wallet",
		TransID:      999888,
		ResultCode:   resultCode,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1700000000000,
	}
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		testAccessKey, payload.Amount, payload.ExtraData, payload.Message, payload.OrderID,
		payload.OrderInfo, payload.OrderType, payload.PartnerCode, payload.PayType,
		payload.RequestID, payload.ResponseTime, payload.ResultCode, payload.TransID,
	)
	mac := hmac.New(sha256.New, []byte(testSecretKey))
	mac.Write([]byte(raw))
	payload.Signature = hex.EncodeToString(mac.Sum(nil))
	return payload
}

func TestHandleIPN_SuccessSettlesPayment(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	order, payment := seedPendingPayment(t, db, "ORDER_1_deadbeef")

	err := svc.HandleIPN(context.Background(), signedPayload("ORDER_1_deadbeef", 145000, 0))
	require.NoError(t, err)

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, enums.PaymentStatusCompleted, updated.Status)
	require.NotNil(t, updated.TransactionID)
	assert.Equal(t, "999888", *updated.TransactionID)
	require.NotNil(t, updated.PaymentDate)

	var events []models.OutboxEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventPaymentSettled, events[0].EventType)

	var updatedOrder models.Order
	require.NoError(t, db.First(&updatedOrder, order.ID).Error)
	assert.Equal(t, enums.OrderStatusConfirmed, updatedOrder.Status)
}

func TestHandleIPN_FailureClosesPayment(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	_, payment := seedPendingPayment(t, db, "ORDER_1_deadbeef")

	err := svc.HandleIPN(context.Background(), signedPayload("ORDER_1_deadbeef", 145000, 1006))
	require.NoError(t, err)

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, enums.PaymentStatusFailed, updated.Status)
	assert.Nil(t, updated.PaymentDate)

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleIPN_TamperedSignatureRejectedBeforeMutation(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	_, payment := seedPendingPayment(t, db, "ORDER_1_deadbeef")

	payload := signedPayload("ORDER_1_deadbeef", 145000, 0)
	payload.Amount = 1

	err := svc.HandleIPN(context.Background(), payload)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, enums.PaymentStatusPending, updated.Status)
}

func TestHandleIPN_ReplayIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	seedPendingPayment(t, db, "ORDER_1_deadbeef")

	payload := signedPayload("ORDER_1_deadbeef", 145000, 0)
	require.NoError(t, svc.HandleIPN(context.Background(), payload))

	// Gateway transaction id replaced the local reference on settlement;
	// the replayed callback resolves through the embedded order id.
	require.NoError(t, svc.HandleIPN(context.Background(), payload))

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleIPN_ConflictingOutcomeOnClosedPayment(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	seedPendingPayment(t, db, "ORDER_1_deadbeef")

	require.NoError(t, svc.HandleIPN(context.Background(), signedPayload("ORDER_1_deadbeef", 145000, 0)))

	err := svc.HandleIPN(context.Background(), signedPayload("ORDER_1_deadbeef", 145000, 1006))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestHandleIPN_FallbackResolutionByEmbeddedOrderID(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	order, payment := seedPendingPayment(t, db, "")

	ref := fmt.Sprintf("ORDER_%d_deadbeef", order.ID)
	err := svc.HandleIPN(context.Background(), signedPayload(ref, 145000, 0))
	require.NoError(t, err)

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, enums.PaymentStatusCompleted, updated.Status)
}

func TestHandleIPN_UnresolvableReference(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	seedPendingPayment(t, db, "ORDER_1_deadbeef")

	err := svc.HandleIPN(context.Background(), signedPayload("ORDER_9999_unknown", 145000, 0))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestHandleIPN_AmountMismatchRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	_, payment := seedPendingPayment(t, db, "ORDER_1_deadbeef")

	err := svc.HandleIPN(context.Background(), signedPayload("ORDER_1_deadbeef", 99999, 0))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var updated models.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, enums.PaymentStatusPending, updated.Status)
}
