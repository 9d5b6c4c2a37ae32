package service

import (
	"context"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/paging"
	"exchange-desk/pkg/logging"
	"fmt"
	"go.uber.org/zap"
	"time"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	DefaultNotifyTimeout = 30 * time.Second
)

// CreateOrderInput is the web form payload. Absent fields stay zero.
type CreateOrderInput struct {
	ExmoCode      string
	GiveAmount    data.Amount
	ReceiveAmount data.Amount
	FullName      string
	Phone         string
	Bank          string
}

func (in *CreateOrderInput) validate() error {
	if in.GiveAmount.IsNegative() {
		return &data.ValidationError{Field: "giveAmount", Reason: "must not be negative"}
	}
	if in.ReceiveAmount.IsNegative() {
		return &data.ValidationError{Field: "receiveAmount", Reason: "must not be negative"}
	}
	return nil
}

type Orders struct {
	repository OrderRepository
	notifier   Notifier
	now        func() time.Time
	logger     *logging.ZapLogger

	notifyTimeout time.Duration
}

type Option func(*Orders)

// WithClock replaces time.Now as the source of createdAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orders) {
		o.now = now
	}
}

// WithNotifyTimeout bounds how long admin notification may take after an order is stored.
func WithNotifyTimeout(timeout time.Duration) Option {
	return func(o *Orders) {
		o.notifyTimeout = timeout
	}
}

// NewOrders builds the service. notifier may be nil, then creation does not notify anyone.
func NewOrders(repository OrderRepository, notifier Notifier, logger *logging.ZapLogger, opts ...Option) *Orders {
	o := &Orders{
		repository: repository,
		notifier:   notifier,
		now:        time.Now,
		logger:     logger,

		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateOrder persists a pending order and then notifies admins. A delivery
// failure is logged and does not fail the call: the order is already stored.
func (o *Orders) CreateOrder(ctx context.Context, in CreateOrderInput) (data.Order, error) {
	if err := in.validate(); err != nil {
		return data.Order{}, err
	}
	order := &data.Order{
		Type:          data.SellOrderType,
		ExmoCode:      in.ExmoCode,
		GiveAmount:    in.GiveAmount,
		ReceiveAmount: in.ReceiveAmount,
		FullName:      in.FullName,
		Phone:         in.Phone,
		Bank:          in.Bank,
		Status:        data.PendingStatus,
		CreatedAt:     data.NewTimestamp(o.now().UTC()),
	}
	if err := o.repository.InsertOrder(ctx, order); err != nil {
		return data.Order{}, fmt.Errorf("error creating order: %w", err)
	}
	ctx = logging.WithContextFields(ctx, zap.Int("order_id", order.ID))
	o.logger.InfoCtx(ctx, "order created")

	if o.notifier != nil {
		o.notify(ctx, *order)
	}
	return *order, nil
}

// notify ignores cancellation of ctx and is bounded by notifyTimeout instead.
func (o *Orders) notify(ctx context.Context, order data.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.notifyTimeout)
	defer cancel()
	if err := o.notifier.NotifyNewOrder(ctx, order); err != nil {
		o.logger.WarnCtx(ctx, "order stored but notification failed", zap.Error(err))
	}
}

// ListOrders returns one newest-first page. page < 1 is treated as 1, perPage
// falls back to DefaultPerPage and is capped at MaxPerPage.
func (o *Orders) ListOrders(ctx context.Context, page, perPage int) (paging.Page[data.Order], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	orders, err := o.repository.GetAllOrders(ctx)
	if err != nil {
		return paging.Page[data.Order]{}, fmt.Errorf("error listing orders: %w", err)
	}
	return paging.Slice(orders, page, perPage), nil
}

// GetAllOrders returns orders in creation order.
func (o *Orders) GetAllOrders(ctx context.Context) ([]data.Order, error) {
	orders, err := o.repository.GetAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting all orders: %w", err)
	}
	return orders, nil
}

func (o *Orders) GetOrder(ctx context.Context, id int) (data.Order, error) {
	order, err := o.repository.GetOrder(ctx, id)
	if err != nil {
		return data.Order{}, fmt.Errorf("error getting order %d: %w", id, err)
	}
	return order, nil
}

// UpdateStatus parses status and stores it on the order.
func (o *Orders) UpdateStatus(ctx context.Context, id int, status string) (data.Order, error) {
	parsed, err := data.ParseStatus(status)
	if err != nil {
		return data.Order{}, err
	}
	return o.SetStatus(ctx, id, parsed)
}

func (o *Orders) SetStatus(ctx context.Context, id int, status data.Status) (data.Order, error) {
	order, err := o.repository.SetOrderStatus(ctx, id, status)
	if err != nil {
		return data.Order{}, fmt.Errorf("error updating order status: %w", err)
	}
	o.logger.InfoCtx(ctx, "order status updated", zap.Int("order_id", id), zap.String("status", string(status)))
	return order, nil
}
