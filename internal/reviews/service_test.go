package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
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
	dsn := "file:reviews_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Store{},
		&models.Food{},
		&models.Order{},
		&models.Review{},
	))
	return db
}

func seedCompletedOrder(t *testing.T, db *gorm.DB, customerID, storeID uint) {
	t.Helper()
	order := models.Order{
		CustomerID:      customerID,
		StoreID:         storeID,
		Status:          enums.OrderStatusCompleted,
		PaymentMethod:   enums.PaymentMethodCash,
		DeliveryAddress: "34 Tran Hung Dao",
	}
	require.NoError(t, db.Create(&order).Error)
}

func TestCreate_RequiresCompletedOrder(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{
		CustomerID: 1,
		StoreID:    1,
		Rating:     5,
		Comment:    "great pho",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	seedCompletedOrder(t, db, 1, 1)

	review, err := svc.Create(context.Background(), CreateInput{
		CustomerID: 1,
		StoreID:    1,
		Rating:     5,
		Comment:    "great pho",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
}

func TestCreate_RatingBounds(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	seedCompletedOrder(t, db, 1, 1)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), CreateInput{
			CustomerID: 1, StoreID: 1, Rating: rating,
		})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestSummarize(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	seedCompletedOrder(t, db, 1, 1)
	seedCompletedOrder(t, db, 2, 1)

	_, err = svc.Create(context.Background(), CreateInput{CustomerID: 1, StoreID: 1, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{CustomerID: 2, StoreID: 1, Rating: 3})
	require.NoError(t, err)

	summary, err := svc.Summarize(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.ReviewCount)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
}

func TestCreate_FoodMustBelongToStore(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	seedCompletedOrder(t, db, 1, 1)

	foreignFood := uint(42)
	_, err = svc.Create(context.Background(), CreateInput{
		CustomerID: 1, StoreID: 1, Rating: 4, FoodID: &foreignFood,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
