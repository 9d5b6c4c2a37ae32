package service

import (
	"context"
	"exchange-desk/internal/exchange/data"
)

type OrderRepository interface {
	InsertOrder(ctx context.Context, order *data.Order) error
	GetAllOrders(ctx context.Context) ([]data.Order, error)
	GetOrder(ctx context.Context, id int) (data.Order, error)
	SetOrderStatus(ctx context.Context, id int, status data.Status) (data.Order, error)
}

type Notifier interface {
	NotifyNewOrder(ctx context.Context, order data.Order) error
}
