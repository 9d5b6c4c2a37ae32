package jsonstorage

import (
	"context"
	"errors"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/pkg/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data", "orders.json"), logging.NewNop())
}

func sampleOrder(id int) data.Order {
	return data.Order{
		ID:            id,
		Type:          data.SellOrderType,
		ExmoCode:      "EX-CODE",
		GiveAmount:    data.NewAmount(decimal.New(100, 0)),
		ReceiveAmount: data.NewAmount(decimal.New(95, 0)),
		FullName:      "Ivan <Petrov> & Sons",
		Phone:         "+79000000000",
		Bank:          "Sber",
		Status:        data.PendingStatus,
		CreatedAt:     data.NewTimestamp(time.Date(2025, 3, 4, 10, 11, 12, 0, time.UTC)),
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	storage := newTestStorage(t)

	orders, err := storage.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
}

func TestLoadAllEmptyFile(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(storage.Path()), 0o755))
	require.NoError(t, os.WriteFile(storage.Path(), []byte("  \n"), 0o644))

	orders, err := storage.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestLoadAllCorrupt(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(storage.Path()), 0o755))
	require.NoError(t, os.WriteFile(storage.Path(), []byte(`[{"id": 1,`), 0o644))

	_, err := storage.LoadAll(context.Background())

	var corrupt *data.StorageCorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, storage.Path(), corrupt.Path)
}

func TestLoadAllAcceptsLocalTimestamps(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(storage.Path()), 0o755))
	document := `[
  {
    "id": 1,
    "type": "sell",
    "exmoCode": "EX-1",
    "giveAmount": 1000,
    "receiveAmount": 990.5,
    "fullName": "Иван Петров",
    "phone": "+79001234567",
    "bank": "Сбербанк",
    "status": "pending",
    "createdAt": "2024-05-01T12:00:00.123456"
  }
]`
	require.NoError(t, os.WriteFile(storage.Path(), []byte(document), 0o644))

	orders, err := storage.LoadAll(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Иван Петров", orders[0].FullName)
	assert.True(t, time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.UTC).Equal(orders[0].CreatedAt.Time))
	assert.True(t, orders[0].ReceiveAmount.Equal(decimal.New(9905, -1)))
}

func TestSaveAllCreatesDirectoryAndRoundTrips(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	orders := []data.Order{sampleOrder(1), sampleOrder(2)}

	require.NoError(t, storage.SaveAll(ctx, orders))
	first, err := os.ReadFile(storage.Path())
	require.NoError(t, err)
	assert.Contains(t, string(first), `"fullName": "Ivan <Petrov> & Sons"`)
	assert.Contains(t, string(first), `"giveAmount": 100,`)

	loaded, err := storage.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, orders[1].ID, loaded[1].ID)
	assert.True(t, orders[0].GiveAmount.Equal(loaded[0].GiveAmount.Decimal))
	assert.True(t, orders[0].CreatedAt.Equal(loaded[0].CreatedAt.Time))

	require.NoError(t, storage.SaveAll(ctx, loaded))
	second, err := os.ReadFile(storage.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestSaveAllLeavesNoTempFiles(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.SaveAll(context.Background(), []data.Order{sampleOrder(1)}))

	entries, err := os.ReadDir(filepath.Dir(storage.Path()))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}

func TestUpdateErrorLeavesStoreUnchanged(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	require.NoError(t, storage.SaveAll(ctx, []data.Order{sampleOrder(1)}))
	before, err := os.ReadFile(storage.Path())
	require.NoError(t, err)

	err = storage.Update(ctx, func(orders []data.Order) ([]data.Order, error) {
		orders[0].Status = data.RejectedStatus
		return nil, data.ErrOrderNotFound
	})

	assert.ErrorIs(t, err, data.ErrOrderNotFound)
	after, err := os.ReadFile(storage.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdateSerializesConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	// Two instances stand in for the intake and bot processes.
	storages := []*Storage{New(path, logging.NewNop()), New(path, logging.NewNop())}
	ctx := context.Background()

	const writers = 20
	wg := &sync.WaitGroup{}
	for i := range writers {
		wg.Add(1)
		go func(storage *Storage) {
			defer wg.Done()
			err := storage.Update(ctx, func(orders []data.Order) ([]data.Order, error) {
				return append(orders, sampleOrder(data.NextOrderID(orders))), nil
			})
			assert.NoError(t, err)
		}(storages[i%2])
	}
	wg.Wait()

	orders, err := storages[0].LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, writers)
	for i, order := range orders {
		assert.Equal(t, i+1, order.ID)
	}
}

func TestUpdateCanceledContext(t *testing.T) {
	storage := newTestStorage(t)
	other := New(storage.Path(), logging.NewNop())

	unlock, err := other.lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = storage.Update(ctx, func(orders []data.Order) ([]data.Order, error) {
		return orders, nil
	})
	assert.Error(t, err)
}
