package follows

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
	dsn := "file:follows_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Store{}, &models.Follow{}))
	return db
}

func seed(t *testing.T, db *gorm.DB) (models.Account, models.Store) {
	t.Helper()
	customer := models.Account{Username: "an.nguyen", Email: "an@example.com", PasswordHash: "x", Role: enums.RoleCustomer}
	require.NoError(t, db.Create(&customer).Error)
	owner := models.Account{Username: "pho.corner", Email: "owner@example.com", PasswordHash: "x", Role: enums.RoleStore}
	require.NoError(t, db.Create(&owner).Error)
	store := models.Store{AccountID: owner.ID, Name: "Pho Corner", Address: "12 Hang Bac", Approved: true}
	require.NoError(t, db.Create(&store).Error)
	return customer, store
}

func TestFollow_Idempotent(t *testing.T) {
	db := newTestDB(t)
	customer, store := seed(t, db)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	require.NoError(t, svc.Follow(context.Background(), customer.ID, store.ID))
	require.NoError(t, svc.Follow(context.Background(), customer.ID, store.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stores, err := svc.ListFollowed(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Pho Corner", stores[0].Name)
}

func TestFollow_UnknownStore(t *testing.T) {
	db := newTestDB(t)
	customer, _ := seed(t, db)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	err = svc.Follow(context.Background(), customer.ID, 9999)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUnfollow(t *testing.T) {
	db := newTestDB(t)
	customer, store := seed(t, db)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	require.NoError(t, svc.Follow(context.Background(), customer.ID, store.ID))
	require.NoError(t, svc.Unfollow(context.Background(), customer.ID, store.ID))

	err = svc.Unfollow(context.Background(), customer.ID, store.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListFollowerAccounts(t *testing.T) {
	db := newTestDB(t)
	customer, store := seed(t, db)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Follow(context.Background(), customer.ID, store.ID))

	followers, err := repo.ListFollowerAccounts(context.Background(), store.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, customer.Email, followers[0].Email)
}
