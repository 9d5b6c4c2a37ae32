package notifier

import (
	"context"
	"errors"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/presentation"
	"exchange-desk/pkg/logging"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Config struct {
	AdminIDs    []int64
	Concurrency int
}

// Notifier pushes new-order messages to every configured admin chat.
type Notifier struct {
	sender Sender
	cfg    Config
	logger *logging.ZapLogger
}

func New(cfg Config, sender Sender, logger *logging.ZapLogger) *Notifier {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Notifier{
		sender: sender,
		cfg:    cfg,
		logger: logger,
	}
}

// NotifyNewOrder sends to each admin independently. One admin failing does not
// stop delivery to the rest; all failures are returned joined.
func (n *Notifier) NotifyNewOrder(ctx context.Context, order data.Order) error {
	text := presentation.FormatNewOrderNotification(order)
	errs := make([]error, len(n.cfg.AdminIDs))

	g := &errgroup.Group{}
	g.SetLimit(n.cfg.Concurrency)
	for i, adminID := range n.cfg.AdminIDs {
		g.Go(func() error {
			if err := n.sender.SendMessage(ctx, adminID, text); err != nil {
				n.logger.ErrorCtx(ctx, "failed to notify admin", zap.Int64("admin_id", adminID), zap.Error(err))
				errs[i] = fmt.Errorf("admin %d: %w", adminID, err)
				return nil
			}
			n.logger.DebugCtx(ctx, "admin notified", zap.Int64("admin_id", adminID))
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
