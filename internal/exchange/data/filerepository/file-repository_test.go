package filerepository

import (
	"context"
	"errors"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/data/jsonstorage"
	"exchange-desk/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func newTestRepository(t *testing.T) (*FileRepository, *jsonstorage.Storage) {
	t.Helper()
	storage := jsonstorage.New(filepath.Join(t.TempDir(), "orders.json"), logging.NewNop())
	return New(storage, logging.NewNop()), storage
}

func TestInsertOrderAssignsSequentialIDs(t *testing.T) {
	repository, storage := newTestRepository(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		order := &data.Order{ExmoCode: "code", Status: data.PendingStatus}
		require.NoError(t, repository.InsertOrder(ctx, order))
		assert.Equal(t, i, order.ID)
	}

	orders, err := storage.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, 3, orders[2].ID)
}

func TestInsertOrderAfterGap(t *testing.T) {
	repository, storage := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, storage.SaveAll(ctx, []data.Order{{ID: 7}, {ID: 2}}))

	order := &data.Order{}
	require.NoError(t, repository.InsertOrder(ctx, order))

	assert.Equal(t, 8, order.ID)
}

func TestGetOrder(t *testing.T) {
	repository, storage := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, storage.SaveAll(ctx, []data.Order{{ID: 1, Bank: "A"}, {ID: 2, Bank: "B"}}))

	order, err := repository.GetOrder(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "B", order.Bank)

	_, err = repository.GetOrder(ctx, 5)
	assert.ErrorIs(t, err, data.ErrOrderNotFound)
}

func TestSetOrderStatus(t *testing.T) {
	repository, storage := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, storage.SaveAll(ctx, []data.Order{
		{ID: 1, Status: data.PendingStatus},
		{ID: 2, Status: data.PendingStatus},
	}))

	updated, err := repository.SetOrderStatus(ctx, 2, data.CompletedStatus)
	require.NoError(t, err)
	assert.Equal(t, data.CompletedStatus, updated.Status)

	orders, err := repository.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.PendingStatus, orders[0].Status)
	assert.Equal(t, data.CompletedStatus, orders[1].Status)
}

func TestSetOrderStatusMissing(t *testing.T) {
	repository, storage := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, storage.SaveAll(ctx, []data.Order{{ID: 1, Status: data.PendingStatus}}))

	_, err := repository.SetOrderStatus(ctx, 99, data.CompletedStatus)
	assert.True(t, errors.Is(err, data.ErrOrderNotFound))

	orders, err := repository.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.PendingStatus, orders[0].Status)
}
