package presentation

import (
	"exchange-desk/internal/common/telegramprotocol"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/internal/exchange/paging"
	"fmt"
	"strconv"
	"strings"
)

type Button = telegramprotocol.InlineKeyboardButton

type ActionKind int

const (
	UnknownAction ActionKind = iota
	ViewAction
	PageAction
	BackAction
	CompleteAction
	RejectAction
)

const (
	viewPrefix     = "view_"
	pagePrefix     = "page_"
	completePrefix = "complete_"
	rejectPrefix   = "reject_"
	backTag        = "back_orders"
)

// Action is a decoded callback tag. Arg is an order id or a page number.
type Action struct {
	Kind ActionKind
	Arg  int
}

func ViewTag(id int) string     { return viewPrefix + strconv.Itoa(id) }
func PageTag(page int) string   { return pagePrefix + strconv.Itoa(page) }
func CompleteTag(id int) string { return completePrefix + strconv.Itoa(id) }
func RejectTag(id int) string   { return rejectPrefix + strconv.Itoa(id) }
func BackTag() string           { return backTag }

// ParseAction decodes a callback tag. A page tag with a malformed number
// points at page 1; other malformed tags are unknown.
func ParseAction(tag string) Action {
	switch {
	case tag == backTag:
		return Action{Kind: BackAction, Arg: 1}
	case strings.HasPrefix(tag, pagePrefix):
		return Action{Kind: PageAction, Arg: ParsePageNumber(strings.TrimPrefix(tag, pagePrefix))}
	case strings.HasPrefix(tag, viewPrefix):
		return idAction(ViewAction, strings.TrimPrefix(tag, viewPrefix))
	case strings.HasPrefix(tag, completePrefix):
		return idAction(CompleteAction, strings.TrimPrefix(tag, completePrefix))
	case strings.HasPrefix(tag, rejectPrefix):
		return idAction(RejectAction, strings.TrimPrefix(tag, rejectPrefix))
	}
	return Action{Kind: UnknownAction}
}

func idAction(kind ActionKind, raw string) Action {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return Action{Kind: UnknownAction}
	}
	return Action{Kind: kind, Arg: id}
}

// ParsePageNumber returns 1 for anything that is not a number.
func ParsePageNumber(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return page
}

type PageView struct {
	Text    string
	Buttons [][]Button
	Page    int
	Pages   int
}

// BuildPageView renders one newest-first page of orders. page is clamped
// into [1, pages].
func BuildPageView(orders []data.Order, page, perPage int) PageView {
	if len(orders) == 0 {
		return PageView{Text: NoOrdersText, Page: 1}
	}
	pages := paging.PagesCount(len(orders), perPage)
	page = paging.Clamp(page, pages)
	window := paging.Slice(orders, page, perPage)

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "📋 <b>Orders</b> (page %d/%d, total: %d)\n\n", page, pages, window.Total)
	buttons := make([][]Button, 0, len(window.Items)+1)
	for _, order := range window.Items {
		sb.WriteString(FormatOrderSummary(order))
		sb.WriteString("\n")
		buttons = append(buttons, []Button{{
			Text:         fmt.Sprintf("📄 #%d %s", order.ID, Truncate(order.FullName, ButtonNameLimit)),
			CallbackData: ViewTag(order.ID),
		}})
	}

	nav := make([]Button, 0, 2)
	if page > 1 {
		nav = append(nav, Button{Text: "⬅️ Back", CallbackData: PageTag(page - 1)})
	}
	if page < pages {
		nav = append(nav, Button{Text: "Next ➡️", CallbackData: PageTag(page + 1)})
	}
	if len(nav) > 0 {
		buttons = append(buttons, nav)
	}
	return PageView{Text: sb.String(), Buttons: buttons, Page: page, Pages: pages}
}

func DetailKeyboard(order data.Order) [][]Button {
	return [][]Button{
		{
			{Text: "✅ Completed", CallbackData: CompleteTag(order.ID)},
			{Text: "❌ Rejected", CallbackData: RejectTag(order.ID)},
		},
		BackRow(),
	}
}

func BackRow() []Button {
	return []Button{{Text: "🔙 Back to list", CallbackData: BackTag()}}
}
