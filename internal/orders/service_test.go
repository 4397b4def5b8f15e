package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Store{},
		&models.Category{},
		&models.Food{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))
	return db
}

type fixture struct {
	db       *gorm.DB
	svc      Service
	customer models.Account
	store    models.Store
	pho      models.Food
	rolls    models.Food
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	svc, err := NewService(NewRepository(db), testTxRunner{db: db})
	require.NoError(t, err)

	customer := models.Account{Username: "an.nguyen", Email: "an@example.com", PasswordHash: "x", Role: enums.RoleCustomer}
	require.NoError(t, db.Create(&customer).Error)

	owner := models.Account{Username: "pho.corner", Email: "owner@example.com", PasswordHash: "x", Role: enums.RoleStore}
	require.NoError(t, db.Create(&owner).Error)

	store := models.Store{AccountID: owner.ID, Name: "Pho Corner", Address: "12 Hang Bac", Approved: true}
	require.NoError(t, db.Create(&store).Error)

	pho := models.Food{StoreID: store.ID, Name: "Pho Bo", Price: decimal.NewFromInt(50000), Available: true, MealTime: enums.MealTimeAnytime}
	require.NoError(t, db.Create(&pho).Error)

	rolls := models.Food{StoreID: store.ID, Name: "Spring Rolls", Price: decimal.NewFromInt(30000), Available: true, MealTime: enums.MealTimeAnytime}
	require.NoError(t, db.Create(&rolls).Error)

	return &fixture{db: db, svc: svc, customer: customer, store: store, pho: pho, rolls: rolls}
}

func (f *fixture) createInput(method enums.PaymentMethod) CreateInput {
	return CreateInput{
		CustomerID:      f.customer.ID,
		StoreID:         f.store.ID,
		PaymentMethod:   method,
		DeliveryAddress: "34 Tran Hung Dao",
		ShippingFee:     decimal.NewFromInt(15000),
		Items: []CreateItemInput{
			{FoodID: f.pho.ID, Quantity: 2},
			{FoodID: f.rolls.ID, Quantity: 1},
		},
	}
}

func TestCreate_CashOrderSettlesImmediately(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.TotalAmount().Equal(decimal.NewFromInt(145000)),
		"got total %s", order.TotalAmount())

	require.NotNil(t, order.Payment)
	assert.Equal(t, enums.PaymentStatusCompleted, order.Payment.Status)
	assert.NotNil(t, order.Payment.PaymentDate)
	assert.True(t, order.Payment.Amount.Equal(decimal.NewFromInt(145000)))
}

func TestCreate_GatewayOrderStaysPending(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodMomo))
	require.NoError(t, err)

	require.NotNil(t, order.Payment)
	assert.Equal(t, enums.PaymentStatusPending, order.Payment.Status)
	assert.Nil(t, order.Payment.PaymentDate)
}

func TestCreate_SnapshotsPriceAtOrderTime(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.Food{}).
		Where("id = ?", f.pho.ID).
		Update("price", decimal.NewFromInt(99000)).Error)

	var reloaded models.Order
	require.NoError(t, f.db.Preload("Items").First(&reloaded, order.ID).Error)
	assert.True(t, reloaded.TotalAmount().Equal(decimal.NewFromInt(145000)))
}

func TestCreate_RejectsForeignFoodAtomically(t *testing.T) {
	f := newFixture(t)

	otherOwner := models.Account{Username: "bun.cha", Email: "bun@example.com", PasswordHash: "x", Role: enums.RoleStore}
	require.NoError(t, f.db.Create(&otherOwner).Error)
	otherStore := models.Store{AccountID: otherOwner.ID, Name: "Bun Cha House", Address: "5 Le Loi", Approved: true}
	require.NoError(t, f.db.Create(&otherStore).Error)
	foreign := models.Food{StoreID: otherStore.ID, Name: "Bun Cha", Price: decimal.NewFromInt(45000), Available: true, MealTime: enums.MealTimeAnytime}
	require.NoError(t, f.db.Create(&foreign).Error)

	input := f.createInput(enums.PaymentMethodCash)
	input.Items = append(input.Items, CreateItemInput{FoodID: foreign.ID, Quantity: 1})

	_, err := f.svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var orderCount, itemCount, paymentCount int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, paymentCount)
}

func TestCreate_RejectsUnavailableFood(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&models.Food{}).
		Where("id = ?", f.rolls.ID).
		Update("available", false).Error)

	_, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreate_RejectsUnapprovedStore(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&models.Store{}).
		Where("id = ?", f.store.ID).
		Update("approved", false).Error)

	_, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCreate_ValidatesInput(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
		code   pkgerrors.Code
	}{
		{"no items", func(in *CreateInput) { in.Items = nil }, pkgerrors.CodeValidation},
		{"zero quantity", func(in *CreateInput) { in.Items[0].Quantity = 0 }, pkgerrors.CodeValidation},
		{"bad method", func(in *CreateInput) { in.PaymentMethod = "BITCOIN" }, pkgerrors.CodeValidation},
		{"no address", func(in *CreateInput) { in.DeliveryAddress = "" }, pkgerrors.CodeValidation},
		{"negative shipping", func(in *CreateInput) { in.ShippingFee = decimal.NewFromInt(-1) }, pkgerrors.CodeValidation},
		{"duplicate food", func(in *CreateInput) {
			in.Items = append(in.Items, CreateItemInput{FoodID: in.Items[0].FoodID, Quantity: 1})
		}, pkgerrors.CodeValidation},
		{"no customer", func(in *CreateInput) { in.CustomerID = 0 }, pkgerrors.CodeUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := f.createInput(enums.PaymentMethodCash)
			tc.mutate(&input)
			_, err := f.svc.Create(context.Background(), input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, tc.code, typed.Code())
		})
	}
}

func storeActor(f *fixture) TransitionInput {
	storeID := f.store.ID
	return TransitionInput{
		ActorAccountID: f.store.AccountID,
		ActorStoreID:   &storeID,
		ActorRole:      enums.RoleStore,
	}
}

func TestTransitions_HappyPath(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	actor := storeActor(f)
	actor.OrderID = order.ID

	confirmed, err := f.svc.Confirm(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, confirmed.Status)

	delivering, err := f.svc.Deliver(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivering, delivering.Status)

	completed, err := f.svc.Complete(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, completed.Status)
}

func TestTransitions_RejectsSkippedStates(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	actor := storeActor(f)
	actor.OrderID = order.ID

	_, err = f.svc.Deliver(context.Background(), actor)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = f.svc.Complete(context.Background(), actor)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestTransitions_RepeatedCallIsNoOp(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	actor := storeActor(f)
	actor.OrderID = order.ID

	_, err = f.svc.Confirm(context.Background(), actor)
	require.NoError(t, err)
	again, err := f.svc.Confirm(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, again.Status)
}

func TestCancel_CustomerWhilePending(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodMomo))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), TransitionInput{
		OrderID:        order.ID,
		ActorAccountID: f.customer.ID,
		ActorRole:      enums.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	var payment models.Payment
	require.NoError(t, f.db.First(&payment, "order_id = ?", order.ID).Error)
	assert.Equal(t, enums.PaymentStatusFailed, payment.Status)
}

func TestCancel_RejectedAfterConfirmation(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	actor := storeActor(f)
	actor.OrderID = order.ID
	_, err = f.svc.Confirm(context.Background(), actor)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), TransitionInput{
		OrderID:        order.ID,
		ActorAccountID: f.customer.ID,
		ActorRole:      enums.RoleCustomer,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestTransitions_ForbiddenForStrangers(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	otherStoreID := f.store.ID + 100
	_, err = f.svc.Confirm(context.Background(), TransitionInput{
		OrderID:        order.ID,
		ActorAccountID: 999,
		ActorStoreID:   &otherStoreID,
		ActorRole:      enums.RoleStore,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	_, err = f.svc.Cancel(context.Background(), TransitionInput{
		OrderID:        order.ID,
		ActorAccountID: 999,
		ActorRole:      enums.RoleCustomer,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestGet_ScopedToParticipants(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
	require.NoError(t, err)

	got, err := f.svc.Get(context.Background(), TransitionInput{
		OrderID:        order.ID,
		ActorAccountID: f.customer.ID,
		ActorRole:      enums.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.svc.Get(context.Background(), TransitionInput{
		OrderID:        order.ID,
		ActorAccountID: f.customer.ID + 50,
		ActorRole:      enums.RoleCustomer,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestList_ByCustomer(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(context.Background(), f.createInput(enums.PaymentMethodCash))
		require.NoError(t, err)
	}

	customerID := f.customer.ID
	rows, err := f.svc.List(context.Background(), ListInput{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
