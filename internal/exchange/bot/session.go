package bot

import (
	"context"
	"exchange-desk/internal/common/telegramprotocol"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/presentation"
	"exchange-desk/pkg/logging"
	"exchange-desk/pkg/timeutils"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"time"
)

type Transport interface {
	GetMe(ctx context.Context) (telegramprotocol.User, error)
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegramprotocol.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]presentation.Button) error
	EditMessage(ctx context.Context, chatID, messageID int64, text string, rows [][]presentation.Button) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

type OrderService interface {
	GetAllOrders(ctx context.Context) ([]data.Order, error)
	GetOrder(ctx context.Context, id int) (data.Order, error)
	SetStatus(ctx context.Context, id int, status data.Status) (data.Order, error)
}

type Config struct {
	PageSize      int
	PollTimeout   time.Duration
	PollInterval  time.Duration
	ErrorBackoff  time.Duration
	ConnectDelays []time.Duration
}

func DefaultConfig() Config {
	return Config{
		PageSize:      5,
		PollTimeout:   30 * time.Second,
		PollInterval:  time.Second,
		ErrorBackoff:  5 * time.Second,
		ConnectDelays: []time.Duration{time.Second, 2 * time.Second, 5 * time.Second},
	}
}

// Bot is the long-polling session. Updates are handled one at a time in the
// order they arrive.
type Bot struct {
	transport Transport
	orders    OrderService
	cfg       Config
	logger    *logging.ZapLogger
	offset    int64
}

func New(cfg Config, transport Transport, orders OrderService, logger *logging.ZapLogger) *Bot {
	return &Bot{
		transport: transport,
		orders:    orders,
		cfg:       cfg,
		logger:    logger,
	}
}

// Offset is the id of the next update to fetch.
func (b *Bot) Offset() int64 {
	return b.offset
}

// Run checks the token and polls until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.connect(ctx); err != nil {
		return err
	}
	for {
		delay := b.cfg.PollInterval
		if err := b.pollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			b.logger.ErrorCtx(ctx, "failed to fetch updates", zap.Error(err))
			delay = b.cfg.ErrorBackoff
		}
		if err := timeutils.SleepCtx(ctx, delay); err != nil {
			break
		}
	}
	b.logger.InfoCtx(ctx, "bot stopped", zap.Int64("offset", b.offset))
	return nil
}

func (b *Bot) connect(ctx context.Context) error {
	me, err := timeutils.Retry(ctx, b.cfg.ConnectDelays, func(ctx context.Context) (telegramprotocol.User, error) {
		me, err := b.transport.GetMe(ctx)
		if err != nil {
			b.logger.WarnCtx(ctx, "failed to reach telegram", zap.Error(err))
		}
		return me, err
	}, timeutils.RetryOnError[telegramprotocol.User])
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	b.logger.InfoCtx(ctx, fmt.Sprintf("Connected as @%s", me.Username))
	return nil
}

// pollOnce fetches one batch and dispatches it. The cursor moves past every
// update before its handler runs, so a failing update is never fetched again.
func (b *Bot) pollOnce(ctx context.Context) error {
	updates, err := b.transport.GetUpdates(ctx, b.offset, b.cfg.PollTimeout)
	if err != nil {
		return err
	}
	for _, update := range updates {
		if ctx.Err() != nil {
			return nil
		}
		b.offset = update.UpdateID + 1
		updateCtx := logging.WithContextFields(ctx,
			zap.Int64("update_id", update.UpdateID),
			zap.String("trace_id", uuid.NewString()),
		)
		if err := b.dispatch(updateCtx, update); err != nil {
			b.logger.ErrorCtx(updateCtx, "failed to handle update", zap.Error(err))
		}
	}
	return nil
}

func (b *Bot) dispatch(ctx context.Context, update telegramprotocol.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling update: %v", r)
		}
	}()
	switch {
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	}
	b.logger.DebugCtx(ctx, "skipping update without message or callback")
	return nil
}
