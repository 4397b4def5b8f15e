package catalog

import (
	"context"
	"encoding/json"
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
	"github.com/minhngdev/foodcourt-backend/pkg/outbox"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Store{},
		&models.Category{},
		&models.Food{},
		&models.Menu{},
		&models.OutboxEvent{},
	))
	return db
}

type fixture struct {
	db    *gorm.DB
	svc   Service
	store models.Store
	actor Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, outbox.NewService(outbox.NewRepository(db), nil))
	require.NoError(t, err)

	owner := models.Account{Username: "pho.corner", Email: "owner@example.com", PasswordHash: "x", Role: enums.RoleStore}
	require.NoError(t, db.Create(&owner).Error)
	store := models.Store{AccountID: owner.ID, Name: "Pho Corner", Address: "12 Hang Bac", Approved: true}
	require.NoError(t, db.Create(&store).Error)

	storeID := store.ID
	return &fixture{
		db:    db,
		svc:   svc,
		store: store,
		actor: Actor{AccountID: owner.ID, StoreID: &storeID, Role: enums.RoleStore},
	}
}

func TestCreateFood_EmitsAnnouncement(t *testing.T) {
	f := newFixture(t)

	food, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:    f.actor,
		StoreID:  f.store.ID,
		Name:     "Pho Bo",
		Price:    decimal.NewFromInt(50000),
		MealTime: enums.MealTimeAnytime,
	})
	require.NoError(t, err)
	assert.True(t, food.Available)

	var events []models.OutboxEvent
	require.NoError(t, f.db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventFoodPublished, events[0].EventType)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(events[0].Payload, &envelope))
	var data outbox.FoodPublishedData
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "Pho Bo", data.FoodName)
	assert.Equal(t, "Pho Corner", data.StoreName)
}

func TestCreateFood_ForbiddenForOtherStore(t *testing.T) {
	f := newFixture(t)
	otherStoreID := f.store.ID + 5
	actor := Actor{AccountID: 99, StoreID: &otherStoreID, Role: enums.RoleStore}

	_, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:   actor,
		StoreID: f.store.ID,
		Name:    "Pho Bo",
		Price:   decimal.NewFromInt(50000),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestCreateFood_ValidatesPriceAndCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:   f.actor,
		StoreID: f.store.ID,
		Name:    "Pho Bo",
		Price:   decimal.Zero,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	missing := uint(12345)
	_, err = f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:      f.actor,
		StoreID:    f.store.ID,
		Name:       "Pho Bo",
		Price:      decimal.NewFromInt(50000),
		CategoryID: &missing,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateFood_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	food, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:   f.actor,
		StoreID: f.store.ID,
		Name:    "Pho Bo",
		Price:   decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(55000)
	unavailable := false
	updated, err := f.svc.UpdateFood(context.Background(), UpdateFoodInput{
		Actor:     f.actor,
		FoodID:    food.ID,
		Price:     &newPrice,
		Available: &unavailable,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.Available)
	assert.Equal(t, "Pho Bo", updated.Name)
}

func TestRemoveFood_HidesFromListing(t *testing.T) {
	f := newFixture(t)
	food, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:   f.actor,
		StoreID: f.store.ID,
		Name:    "Pho Bo",
		Price:   decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveFood(context.Background(), f.actor, food.ID))

	_, err = f.svc.GetFood(context.Background(), food.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	foods, err := f.svc.ListFoods(context.Background(), ListFoodsInput{StoreID: &f.store.ID})
	require.NoError(t, err)
	assert.Empty(t, foods)
}

func TestCreateMenu_RequiresOwnFoods(t *testing.T) {
	f := newFixture(t)
	food, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:   f.actor,
		StoreID: f.store.ID,
		Name:    "Pho Bo",
		Price:   decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	menu, err := f.svc.CreateMenu(context.Background(), CreateMenuInput{
		Actor:    f.actor,
		StoreID:  f.store.ID,
		Name:     "Breakfast Set",
		MenuType: enums.MenuTypeBreakfast,
		FoodIDs:  []uint{food.ID},
	})
	require.NoError(t, err)
	assert.Len(t, menu.Foods, 1)

	_, err = f.svc.CreateMenu(context.Background(), CreateMenuInput{
		Actor:    f.actor,
		StoreID:  f.store.ID,
		Name:     "Bad Set",
		MenuType: enums.MenuTypeLunch,
		FoodIDs:  []uint{food.ID, 9999},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var count int64
	require.NoError(t, f.db.Model(&models.Menu{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateMenu_EmitsAnnouncement(t *testing.T) {
	f := newFixture(t)
	food, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor:   f.actor,
		StoreID: f.store.ID,
		Name:    "Pho Bo",
		Price:   decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	_, err = f.svc.CreateMenu(context.Background(), CreateMenuInput{
		Actor:    f.actor,
		StoreID:  f.store.ID,
		Name:     "Breakfast Set",
		MenuType: enums.MenuTypeBreakfast,
		FoodIDs:  []uint{food.ID},
	})
	require.NoError(t, err)

	var events []models.OutboxEvent
	require.NoError(t, f.db.Where("event_type = ?", enums.EventMenuPublished).Find(&events).Error)
	require.Len(t, events, 1)
}

func TestCategories_AdminOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCategory(context.Background(), CreateCategoryInput{
		Actor: f.actor,
		Name:  "Noodles",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	admin := Actor{AccountID: 1, Role: enums.RoleAdmin}
	category, err := f.svc.CreateCategory(context.Background(), CreateCategoryInput{
		Actor: admin,
		Name:  "Noodles",
	})
	require.NoError(t, err)
	assert.Equal(t, "Noodles", category.Name)

	categories, err := f.svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestListFoods_Filters(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor: f.actor, StoreID: f.store.ID, Name: "Pho Bo",
		Price: decimal.NewFromInt(50000), MealTime: enums.MealTimeBreakfast,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateFood(context.Background(), CreateFoodInput{
		Actor: f.actor, StoreID: f.store.ID, Name: "Com Tam",
		Price: decimal.NewFromInt(40000), MealTime: enums.MealTimeLunch,
	})
	require.NoError(t, err)

	breakfast := enums.MealTimeBreakfast
	foods, err := f.svc.ListFoods(context.Background(), ListFoodsInput{
		StoreID:  &f.store.ID,
		MealTime: &breakfast,
	})
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Pho Bo", foods[0].Name)

	foods, err = f.svc.ListFoods(context.Background(), ListFoodsInput{Query: "Com"})
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Com Tam", foods[0].Name)
}
