package filerepository

import (
	"context"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/pkg/logging"
	"fmt"
	"go.uber.org/zap"
)

type FileStorage interface {
	LoadAll(ctx context.Context) ([]data.Order, error)
	Update(ctx context.Context, f func(orders []data.Order) ([]data.Order, error)) error
}

type FileRepository struct {
	storage FileStorage
	logger  *logging.ZapLogger
}

func New(storage FileStorage, logger *logging.ZapLogger) *FileRepository {
	return &FileRepository{
		storage: storage,
		logger:  logger,
	}
}

// InsertOrder assigns order.ID and appends the order in one storage cycle.
func (r *FileRepository) InsertOrder(ctx context.Context, order *data.Order) error {
	err := r.storage.Update(ctx, func(orders []data.Order) ([]data.Order, error) {
		order.ID = data.NextOrderID(orders)
		return append(orders, *order), nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	r.logger.DebugCtx(ctx, "order inserted", zap.Int("order_id", order.ID))
	return nil
}

// GetAllOrders returns orders in storage (creation) order.
func (r *FileRepository) GetAllOrders(ctx context.Context) ([]data.Order, error) {
	orders, err := r.storage.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (r *FileRepository) GetOrder(ctx context.Context, id int) (data.Order, error) {
	orders, err := r.GetAllOrders(ctx)
	if err != nil {
		return data.Order{}, err
	}
	for _, order := range orders {
		if order.ID == id {
			return order, nil
		}
	}
	return data.Order{}, data.ErrOrderNotFound
}

// SetOrderStatus overwrites the status of the first order with the given id and
// returns the updated record.
func (r *FileRepository) SetOrderStatus(ctx context.Context, id int, status data.Status) (data.Order, error) {
	var updated data.Order
	err := r.storage.Update(ctx, func(orders []data.Order) ([]data.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
				updated = orders[i]
				return orders, nil
			}
		}
		return nil, data.ErrOrderNotFound
	})
	if err != nil {
		return data.Order{}, fmt.Errorf("failed to set order %d status: %w", id, err)
	}
	r.logger.DebugCtx(ctx, "order status set", zap.Int("order_id", id), zap.String("status", string(status)))
	return updated, nil
}
