package bot

import (
	"context"
	"exchange-desk/internal/common/telegramprotocol"
	"exchange-desk/internal/exchange/presentation"
	"fmt"
	"go.uber.org/zap"
	"strings"
)

const (
	startCommand      = "/start"
	ordersCommand     = "/orders"
	ordersPagePrefix  = ordersCommand + "_"
	commandMentionSep = "@"
)

func (b *Bot) handleMessage(ctx context.Context, msg *telegramprotocol.Message) error {
	chatID := msg.Chat.ID
	command := commandName(msg.Text)
	b.logger.DebugCtx(ctx, "message received", zap.Int64("chat_id", chatID), zap.String("command", command))

	switch {
	case command == startCommand:
		return b.transport.SendMessage(ctx, chatID, presentation.FormatHelp(chatID))
	case command == ordersCommand:
		return b.sendOrdersPage(ctx, chatID, 1)
	case strings.HasPrefix(command, ordersPagePrefix):
		page := presentation.ParsePageNumber(strings.TrimPrefix(command, ordersPagePrefix))
		return b.sendOrdersPage(ctx, chatID, page)
	}
	return b.transport.SendMessage(ctx, chatID, presentation.UsageHint)
}

func (b *Bot) sendOrdersPage(ctx context.Context, chatID int64, page int) error {
	orders, err := b.orders.GetAllOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	view := presentation.BuildPageView(orders, page, b.cfg.PageSize)
	return b.transport.SendKeyboard(ctx, chatID, view.Text, view.Buttons)
}

// commandName returns the first word of text without a trailing @botname.
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	command, _, _ := strings.Cut(fields[0], commandMentionSep)
	return command
}
