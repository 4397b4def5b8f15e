package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:outbox_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OutboxEvent{}))
	return db
}

func TestEmit_StoresEnvelopeInTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil)

	storeID := uint(7)
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.EventFoodPublished,
			AggregateID: 3,
			Actor:       &ActorRef{AccountID: 1, StoreID: &storeID, Role: enums.RoleStore},
			Data: FoodPublishedData{
				FoodID:    3,
				StoreID:   7,
				StoreName: "Pho Corner",
				FoodName:  "Pho Bo",
			},
		})
	})
	require.NoError(t, err)

	var row models.OutboxEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, enums.EventFoodPublished, row.EventType)
	assert.Equal(t, uint(3), row.AggregateID)
	assert.Equal(t, enums.OutboxStatusPending, row.Status)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, uint(1), envelope.Actor.AccountID)

	var data FoodPublishedData
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "Pho Bo", data.FoodName)
}

func TestEmit_RolledBackTransactionLeavesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil)

	sentinel := errors.New("abort")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.EventMenuPublished,
			AggregateID: 5,
			Data:        MenuPublishedData{MenuID: 5},
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEmit_RequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{EventType: enums.EventFoodPublished})
	require.Error(t, err)
}

func TestFetchPending_SkipsPublishedAndExhausted(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	pending := models.OutboxEvent{
		ID:          uuid.New(),
		EventType:   enums.EventFoodPublished,
		AggregateID: 1,
		Payload:     []byte(`{}`),
		Status:      enums.OutboxStatusPending,
	}
	published := models.OutboxEvent{
		ID:          uuid.New(),
		EventType:   enums.EventFoodPublished,
		AggregateID: 2,
		Payload:     []byte(`{}`),
		Status:      enums.OutboxStatusPublished,
	}
	exhausted := models.OutboxEvent{
		ID:          uuid.New(),
		EventType:   enums.EventFoodPublished,
		AggregateID: 3,
		Payload:     []byte(`{}`),
		Status:      enums.OutboxStatusPending,
		Attempts:    10,
	}
	require.NoError(t, db.Create(&pending).Error)
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&exhausted).Error)

	rows, err := repo.FetchPending(50, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pending.ID, rows[0].ID)
}

func TestMarkPublished(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	row := models.OutboxEvent{
		ID:          uuid.New(),
		EventType:   enums.EventPaymentSettled,
		AggregateID: 9,
		Payload:     []byte(`{}`),
		Status:      enums.OutboxStatusPending,
	}
	require.NoError(t, db.Create(&row).Error)
	require.NoError(t, repo.MarkPublished(row.ID))

	var updated models.OutboxEvent
	require.NoError(t, db.First(&updated, "id = ?", row.ID).Error)
	assert.Equal(t, enums.OutboxStatusPublished, updated.Status)
	assert.NotNil(t, updated.PublishedAt)
}

func TestMarkFailed_ParksAfterMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	row := models.OutboxEvent{
		ID:          uuid.New(),
		EventType:   enums.EventPaymentSettled,
		AggregateID: 9,
		Payload:     []byte(`{}`),
		Status:      enums.OutboxStatusPending,
	}
	require.NoError(t, db.Create(&row).Error)

	cause := errors.New("broker unreachable")
	require.NoError(t, repo.MarkFailed(row.ID, cause, 2))

	var updated models.OutboxEvent
	require.NoError(t, db.First(&updated, "id = ?", row.ID).Error)
	assert.Equal(t, 1, updated.Attempts)
	assert.Equal(t, enums.OutboxStatusPending, updated.Status)
	require.NotNil(t, updated.LastError)
	assert.Equal(t, "broker unreachable", *updated.LastError)

	require.NoError(t, repo.MarkFailed(row.ID, cause, 2))
	require.NoError(t, db.First(&updated, "id = ?", row.ID).Error)
	assert.Equal(t, 2, updated.Attempts)
	assert.Equal(t, enums.OutboxStatusFailed, updated.Status)
}
