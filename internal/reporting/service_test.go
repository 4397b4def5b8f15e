package reporting

import (
	"context"
	"testing"
	"time"

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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reporting_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Store{},
		&models.Category{},
		&models.Food{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

type fixture struct {
	db    *gorm.DB
	store models.Store
	pho   models.Food
	rolls models.Food
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := newTestDB(t)
	owner := models.Account{Username: "pho.corner", Email: "owner@example.com", PasswordHash: "x", Role: enums.RoleStore}
	require.NoError(t, db.Create(&owner).Error)
	store := models.Store{AccountID: owner.ID, Name: "Pho Corner", Address: "12 Hang Bac", Approved: true}
	require.NoError(t, db.Create(&store).Error)
	noodles := models.Category{Name: "Noodles"}
	require.NoError(t, db.Create(&noodles).Error)
	pho := models.Food{StoreID: store.ID, CategoryID: &noodles.ID, Name: "Pho Bo", Price: decimal.NewFromInt(50000), Available: true}
	require.NoError(t, db.Create(&pho).Error)
	rolls := models.Food{StoreID: store.ID, Name: "Spring Rolls", Price: decimal.NewFromInt(30000), Available: true}
	require.NoError(t, db.Create(&rolls).Error)
	return fixture{db: db, store: store, pho: pho, rolls: rolls}
}

// seedOrder creates a completed order with one line of the given food.
func (f fixture) seedOrder(t *testing.T, at time.Time, food models.Food, qty int, status enums.OrderStatus) {
	t.Helper()
	order := models.Order{
		CustomerID:      1,
		StoreID:         f.store.ID,
		Status:          status,
		PaymentMethod:   enums.PaymentMethodCash,
		ShippingFee:     decimal.NewFromInt(15000),
		DeliveryAddress: "34 Tran Hung Dao",
	}
	order.CreatedAt = at
	require.NoError(t, f.db.Create(&order).Error)
	item := models.OrderItem{OrderID: order.ID, FoodID: food.ID, Quantity: qty, Price: food.Price}
	require.NoError(t, f.db.Create(&item).Error)
}

func storeActor(storeID uint) Actor {
	return Actor{AccountID: 1, StoreID: &storeID, Role: enums.RoleStore}
}

func TestRevenue_MonthlyBuckets(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(NewRepository(f.db))
	require.NoError(t, err)

	jan := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	f.seedOrder(t, jan, f.pho, 2, enums.OrderStatusCompleted)                    // 115000
	f.seedOrder(t, jan.AddDate(0, 2, 0), f.rolls, 1, enums.OrderStatusCompleted) // 45000
	// pending orders never count
	f.seedOrder(t, jan, f.pho, 1, enums.OrderStatusPending)

	report, err := svc.Revenue(context.Background(), storeActor(f.store.ID), RevenueInput{
		StoreID: f.store.ID, Granularity: GranularityMonth, Year: 2026,
	})
	require.NoError(t, err)
	require.Len(t, report.Buckets, 12)
	assert.Equal(t, "2026-01", report.Buckets[0].Label)
	assert.Equal(t, 1, report.Buckets[0].OrderCount)
	assert.True(t, report.Buckets[0].Revenue.Equal(decimal.NewFromInt(115000)))
	assert.Equal(t, 1, report.Buckets[2].OrderCount)
	assert.True(t, report.Buckets[2].Revenue.Equal(decimal.NewFromInt(45000)))
	assert.Zero(t, report.Buckets[5].OrderCount)
	assert.Equal(t, 2, report.TotalOrders)
	assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(160000)))

	require.Len(t, report.Products, 2)
	assert.Equal(t, "Pho Bo", report.Products[0].FoodName)
	assert.Equal(t, 2, report.Products[0].QuantitySold)

	require.Len(t, report.Categories, 1)
	assert.Equal(t, "Noodles", report.Categories[0].Name)
}

func TestRevenue_QuarterAndYearBuckets(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(NewRepository(f.db))
	require.NoError(t, err)

	f.seedOrder(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), f.pho, 1, enums.OrderStatusCompleted)
	f.seedOrder(t, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), f.pho, 1, enums.OrderStatusCompleted)

	quarterly, err := svc.Revenue(context.Background(), storeActor(f.store.ID), RevenueInput{
		StoreID: f.store.ID, Granularity: GranularityQuarter, Year: 2026,
	})
	require.NoError(t, err)
	require.Len(t, quarterly.Buckets, 4)
	assert.Equal(t, 1, quarterly.Buckets[0].OrderCount)
	assert.Equal(t, 1, quarterly.Buckets[2].OrderCount)

	yearly, err := svc.Revenue(context.Background(), storeActor(f.store.ID), RevenueInput{
		StoreID: f.store.ID, Granularity: GranularityYear, Year: 2026,
	})
	require.NoError(t, err)
	require.Len(t, yearly.Buckets, 1)
	assert.Equal(t, "2026", yearly.Buckets[0].Label)
	assert.Equal(t, 2, yearly.Buckets[0].OrderCount)
}

func TestRevenue_ScopedToOwningStore(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(NewRepository(f.db))
	require.NoError(t, err)

	otherStore := uint(999)
	_, err = svc.Revenue(context.Background(), storeActor(otherStore), RevenueInput{
		StoreID: f.store.ID, Year: 2026,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	// customers cannot read revenue at all
	_, err = svc.Revenue(context.Background(), Actor{AccountID: 5, Role: enums.RoleCustomer}, RevenueInput{
		StoreID: f.store.ID, Year: 2026,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	// admins can read any store
	_, err = svc.Revenue(context.Background(), Actor{AccountID: 9, Role: enums.RoleAdmin}, RevenueInput{
		StoreID: f.store.ID, Year: 2026,
	})
	require.NoError(t, err)
}

func TestRevenue_Validation(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(NewRepository(f.db))
	require.NoError(t, err)

	_, err = svc.Revenue(context.Background(), storeActor(f.store.ID), RevenueInput{
		StoreID: f.store.ID, Granularity: "weekly", Year: 2026,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Revenue(context.Background(), storeActor(f.store.ID), RevenueInput{
		StoreID: f.store.ID, Year: 1950,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestTopProducts_RanksByUnitsSold(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(NewRepository(f.db))
	require.NoError(t, err)

	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	f.seedOrder(t, at, f.pho, 1, enums.OrderStatusCompleted)
	f.seedOrder(t, at, f.rolls, 3, enums.OrderStatusCompleted)
	f.seedOrder(t, at, f.rolls, 2, enums.OrderStatusCompleted)

	stats, err := svc.TopProducts(context.Background(), storeActor(f.store.ID), ProductStatsInput{
		StoreID: f.store.ID, Year: 2026,
	})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, f.rolls.ID, stats[0].FoodID)
	assert.Equal(t, "Spring Rolls", stats[0].FoodName)
	assert.Equal(t, 5, stats[0].QuantitySold)
	assert.True(t, stats[0].Revenue.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, f.pho.ID, stats[1].FoodID)
	assert.Equal(t, 1, stats[1].QuantitySold)
}

func TestTopProducts_LimitApplies(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(NewRepository(f.db))
	require.NoError(t, err)

	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	f.seedOrder(t, at, f.pho, 1, enums.OrderStatusCompleted)
	f.seedOrder(t, at, f.rolls, 3, enums.OrderStatusCompleted)

	stats, err := svc.TopProducts(context.Background(), storeActor(f.store.ID), ProductStatsInput{
		StoreID: f.store.ID, Year: 2026, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, f.rolls.ID, stats[0].FoodID)
}

func TestPlatform_AdminOnly(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(NewRepository(f.db))
	require.NoError(t, err)

	customer := models.Account{Username: "an.nguyen", Email: "an@example.com", PasswordHash: "x", Role: enums.RoleCustomer}
	require.NoError(t, f.db.Create(&customer).Error)
	f.seedOrder(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), f.pho, 2, enums.OrderStatusCompleted)

	_, err = svc.Platform(context.Background(), storeActor(f.store.ID), 2026)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	stats, err := svc.Platform(context.Background(), Actor{AccountID: 9, Role: enums.RoleAdmin}, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CustomerCount)
	assert.Equal(t, int64(1), stats.ApprovedStores)
	assert.Equal(t, 1, stats.CompletedOrders)
	assert.True(t, stats.GrossRevenue.Equal(decimal.NewFromInt(115000)))
}
