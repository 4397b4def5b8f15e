package stores

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
	dsn := "file:stores_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Store{}))
	return db
}

func newService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestOnboard_StartsUnapproved(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	store, err := svc.Onboard(context.Background(), OnboardInput{
		AccountID: 1,
		Role:      enums.RoleStore,
		Name:      "Pho Corner",
		Address:   "12 Hang Bac",
	})
	require.NoError(t, err)
	assert.False(t, store.Approved)
}

func TestOnboard_OneStorePerAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	input := OnboardInput{AccountID: 1, Role: enums.RoleStore, Name: "Pho Corner", Address: "12 Hang Bac"}
	_, err := svc.Onboard(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Onboard(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestOnboard_CustomerForbidden(t *testing.T) {
	svc := newService(t, newTestDB(t))

	_, err := svc.Onboard(context.Background(), OnboardInput{
		AccountID: 1,
		Role:      enums.RoleCustomer,
		Name:      "Pho Corner",
		Address:   "12 Hang Bac",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestApprove_AdminOnlyAndIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	store, err := svc.Onboard(context.Background(), OnboardInput{
		AccountID: 1, Role: enums.RoleStore, Name: "Pho Corner", Address: "12 Hang Bac",
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), enums.RoleStore, store.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	approved, err := svc.Approve(context.Background(), enums.RoleAdmin, store.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	again, err := svc.Approve(context.Background(), enums.RoleAdmin, store.ID)
	require.NoError(t, err)
	assert.True(t, again.Approved)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	store, err := svc.Onboard(context.Background(), OnboardInput{
		AccountID: 1, Role: enums.RoleStore, Name: "Pho Corner", Address: "12 Hang Bac",
	})
	require.NoError(t, err)

	newName := "Pho Palace"
	updated, err := svc.Update(context.Background(), UpdateInput{
		AccountID: 1,
		StoreID:   store.ID,
		Name:      &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pho Palace", updated.Name)
	assert.Equal(t, "12 Hang Bac", updated.Address)

	_, err = svc.Update(context.Background(), UpdateInput{
		AccountID: 2,
		StoreID:   store.ID,
		Name:      &newName,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestList_ApprovedOnlyFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	first, err := svc.Onboard(context.Background(), OnboardInput{
		AccountID: 1, Role: enums.RoleStore, Name: "Pho Corner", Address: "12 Hang Bac",
	})
	require.NoError(t, err)
	_, err = svc.Onboard(context.Background(), OnboardInput{
		AccountID: 2, Role: enums.RoleStore, Name: "Bun Cha House", Address: "5 Le Loi",
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), enums.RoleAdmin, first.ID)
	require.NoError(t, err)

	visible, err := svc.List(context.Background(), ListInput{ApprovedOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Pho Corner", visible[0].Name)

	all, err := svc.List(context.Background(), ListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
