package bot

import (
	"context"
	"errors"
	"exchange-desk/internal/common/telegramprotocol"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/presentation"
	"exchange-desk/pkg/logging"
	"fmt"
	"go.uber.org/zap"
)

type ackFunc func(text string) error

// handleCallback applies one inline-button action. The callback is always
// acknowledged, with an empty note when the handler did not answer itself.
func (b *Bot) handleCallback(ctx context.Context, cb *telegramprotocol.CallbackQuery) (err error) {
	ctx = logging.WithContextFields(ctx, zap.String("callback_data", cb.Data))
	acked := false
	ack := func(text string) error {
		acked = true
		return b.transport.AnswerCallback(ctx, cb.ID, text)
	}
	defer func() {
		if acked {
			return
		}
		if ackErr := b.transport.AnswerCallback(ctx, cb.ID, ""); ackErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to answer callback: %w", ackErr))
		}
	}()

	if cb.Message == nil {
		b.logger.WarnCtx(ctx, "callback without message")
		return nil
	}
	chatID, messageID := cb.Message.Chat.ID, cb.Message.MessageID

	action := presentation.ParseAction(cb.Data)
	switch action.Kind {
	case presentation.ViewAction:
		return b.viewOrder(ctx, chatID, messageID, action.Arg, ack)
	case presentation.PageAction, presentation.BackAction:
		return b.showPage(ctx, chatID, messageID, action.Arg, ack)
	case presentation.CompleteAction:
		return b.transition(ctx, chatID, messageID, action.Arg, data.CompletedStatus, ack)
	case presentation.RejectAction:
		return b.transition(ctx, chatID, messageID, action.Arg, data.RejectedStatus, ack)
	}
	b.logger.DebugCtx(ctx, "unknown callback action")
	return nil
}

func (b *Bot) viewOrder(ctx context.Context, chatID, messageID int64, id int, ack ackFunc) error {
	order, err := b.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrOrderNotFound) {
			return ack(presentation.OrderNotFound)
		}
		return fmt.Errorf("failed to get order: %w", err)
	}
	err = b.transport.EditMessage(ctx, chatID, messageID,
		presentation.FormatOrderDetail(order),
		presentation.DetailKeyboard(order),
	)
	if err != nil {
		return fmt.Errorf("failed to show order %d: %w", id, err)
	}
	return ack(presentation.CallbackHandled)
}

func (b *Bot) showPage(ctx context.Context, chatID, messageID int64, page int, ack ackFunc) error {
	orders, err := b.orders.GetAllOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	view := presentation.BuildPageView(orders, page, b.cfg.PageSize)
	if err := b.transport.EditMessage(ctx, chatID, messageID, view.Text, view.Buttons); err != nil {
		return fmt.Errorf("failed to show page %d: %w", view.Page, err)
	}
	return ack(presentation.CallbackHandled)
}

func (b *Bot) transition(ctx context.Context, chatID, messageID int64, id int, status data.Status, ack ackFunc) error {
	order, err := b.orders.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, data.ErrOrderNotFound) {
			return ack(presentation.OrderNotFound)
		}
		return fmt.Errorf("failed to set order status: %w", err)
	}
	if err := ack(presentation.FormatStatusChanged(id, status)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	err = b.transport.EditMessage(ctx, chatID, messageID,
		presentation.FormatOrderDetail(order),
		[][]presentation.Button{presentation.BackRow()},
	)
	if err != nil {
		return fmt.Errorf("failed to refresh order %d: %w", id, err)
	}
	return nil
}
