// Package presentation renders orders as Telegram HTML text and inline keyboards.
// Every function here is pure.
package presentation

import (
	"exchange-desk/internal/exchange/data"
	"fmt"
	"html"
	"strings"
)

const (
	SummaryNameLimit = 15
	ButtonNameLimit  = 12

	detailTimeLayout = "2006-01-02T15:04:05"
	notifyTimeLayout = "2006-01-02 15:04:05 MST"
	separator        = "━━━━━━━━━━━━━━━━━━"
)

var statusIcons = map[data.Status]string{
	data.PendingStatus:    "🟡",
	data.ProcessingStatus: "🔵",
	data.CompletedStatus:  "🟢",
	data.RejectedStatus:   "🔴",
}

func StatusIcon(status data.Status) string {
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return "⚪"
}

// Truncate keeps the first limit characters of s.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func escape(s string) string {
	return html.EscapeString(s)
}

func FormatOrderSummary(order data.Order) string {
	return fmt.Sprintf("%s #%d - %s - %s ₽",
		StatusIcon(order.Status),
		order.ID,
		escape(Truncate(order.FullName, SummaryNameLimit)),
		order.GiveAmount.String(),
	)
}

func FormatOrderDetail(order data.Order) string {
	status := string(order.Status)
	if status == "" {
		status = "unknown"
	}
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s <b>Order #%d</b>\n", StatusIcon(order.Status), order.ID)
	fmt.Fprintf(sb, "%s\n\n", separator)

	sb.WriteString("💳 <b>Code details:</b>\n")
	fmt.Fprintf(sb, "• Code: <code>%s</code>\n", escape(order.ExmoCode))
	fmt.Fprintf(sb, "• Amount: <code>%s ₽</code>\n", order.GiveAmount.String())
	fmt.Fprintf(sb, "• Payout: <code>%s ₽</code>\n\n", order.ReceiveAmount.String())

	sb.WriteString("👤 <b>Client:</b>\n")
	fmt.Fprintf(sb, "• Name: <code>%s</code>\n", escape(order.FullName))
	fmt.Fprintf(sb, "• 📱 Phone: <code>%s</code>\n", escape(order.Phone))
	fmt.Fprintf(sb, "• 🏦 Bank: <code>%s</code>\n\n", escape(order.Bank))

	fmt.Fprintf(sb, "📅 Created: <code>%s</code>\n", order.CreatedAt.Format(detailTimeLayout))
	fmt.Fprintf(sb, "📊 Status: <b>%s</b>\n", escape(strings.ToUpper(status)))
	return sb.String()
}

func FormatNewOrderNotification(order data.Order) string {
	sb := &strings.Builder{}
	sb.WriteString("📋 <b>New exchange order</b>\n\n")
	fmt.Fprintf(sb, "🔹 <b>Order ID:</b> <code>%d</code>\n", order.ID)
	fmt.Fprintf(sb, "🔹 <b>EXMO code:</b> <code>%s</code>\n", escape(order.ExmoCode))
	fmt.Fprintf(sb, "🔹 <b>Amount:</b> <code>%s</code> RUB\n", order.GiveAmount.String())
	fmt.Fprintf(sb, "🔹 <b>To receive:</b> <code>%s</code> RUB\n\n", order.ReceiveAmount.String())
	sb.WriteString("👤 <b>Client details:</b>\n")
	fmt.Fprintf(sb, "• Name: <code>%s</code>\n", escape(order.FullName))
	fmt.Fprintf(sb, "• Phone: <code>%s</code>\n", escape(order.Phone))
	fmt.Fprintf(sb, "• Bank: <code>%s</code>\n\n", escape(order.Bank))
	fmt.Fprintf(sb, "⏰ Date: <code>%s</code>", order.CreatedAt.Format(notifyTimeLayout))
	return sb.String()
}

func FormatStatusChanged(id int, status data.Status) string {
	switch status {
	case data.CompletedStatus:
		return fmt.Sprintf("Order #%d completed ✅", id)
	case data.RejectedStatus:
		return fmt.Sprintf("Order #%d rejected ❌", id)
	}
	return fmt.Sprintf("Order #%d is %s", id, status)
}

func FormatHelp(chatID int64) string {
	return "🤖 <b>EXMO Exchange - Telegram bot</b>\n\n" +
		"📋 Commands:\n" +
		"• /orders - Order list\n" +
		"• /start - Information\n\n" +
		fmt.Sprintf("🆔 Your ID: <code>%d</code>", chatID)
}

const (
	UsageHint       = "Use the commands:\n/start - Start\n/orders - Order list"
	NoOrdersText    = "📭 No orders yet"
	OrderNotFound   = "Order not found"
	CallbackHandled = "✓"
)
