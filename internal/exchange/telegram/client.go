package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"exchange-desk/internal/common/telegramprotocol"
	"exchange-desk/pkg/logging"
	"fmt"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"strings"
	"time"
)

const (
	DefaultAPIURL = "https://api.telegram.org"

	longPollGrace  = 10 * time.Second
	notModifiedMsg = "message is not modified"
	redacted       = "<redacted>"
)

// TransportError is any failed Bot API call. The bot token never appears in Error().
type TransportError struct {
	Method      string
	StatusCode  int
	Description string
	Err         error

	token string
}

func (e *TransportError) Error() string {
	var msg string
	switch {
	case e.Description != "":
		msg = fmt.Sprintf("telegram %s failed with status %d: %s", e.Method, e.StatusCode, e.Description)
	case e.Err != nil:
		msg = fmt.Sprintf("telegram %s failed: %v", e.Method, e.Err)
	default:
		msg = fmt.Sprintf("telegram %s failed with status %d", e.Method, e.StatusCode)
	}
	if e.token != "" {
		msg = strings.ReplaceAll(msg, e.token, redacted)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Config struct {
	APIURL string
	Token  string
}

type Client struct {
	client *resty.Client
	cfg    Config
	logger *logging.ZapLogger
}

func NewClient(cfg Config, logger *logging.ZapLogger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	client := resty.
		New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")+"/bot"+cfg.Token).
		SetHeader("Content-Type", "application/json")
	return &Client{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Client) GetMe(ctx context.Context) (telegramprotocol.User, error) {
	return call[telegramprotocol.User](ctx, c, "getMe", nil)
}

// GetUpdates long-polls for updates starting at offset; the server holds the
// request for up to timeout.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegramprotocol.Update, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout+longPollGrace)
	defer cancel()
	return call[[]telegramprotocol.Update](ctx, c, "getUpdates", telegramprotocol.GetUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message", "callback_query"},
	})
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.SendKeyboard(ctx, chatID, text, nil)
}

// SendKeyboard sends an HTML message with inline buttons; rows may be empty.
func (c *Client) SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]telegramprotocol.InlineKeyboardButton) error {
	_, err := call[telegramprotocol.Message](ctx, c, "sendMessage", telegramprotocol.SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   telegramprotocol.HTMLParseMode,
		ReplyMarkup: markup(rows),
	})
	return err
}

// EditMessage replaces text and buttons of a sent message. An edit that
// changes nothing is not an error.
func (c *Client) EditMessage(ctx context.Context, chatID, messageID int64, text string, rows [][]telegramprotocol.InlineKeyboardButton) error {
	_, err := call[json.RawMessage](ctx, c, "editMessageText", telegramprotocol.EditMessageTextRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   telegramprotocol.HTMLParseMode,
		ReplyMarkup: markup(rows),
	})
	if err != nil && IsNotModified(err) {
		c.logger.DebugCtx(ctx, "message is not modified", zap.Int64("message_id", messageID))
		return nil
	}
	return err
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := call[bool](ctx, c, "answerCallbackQuery", telegramprotocol.AnswerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}

func IsNotModified(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr) && strings.Contains(transportErr.Description, notModifiedMsg)
}

func markup(rows [][]telegramprotocol.InlineKeyboardButton) *telegramprotocol.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	return &telegramprotocol.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func call[T any](ctx context.Context, c *Client, method string, payload any) (T, error) {
	var zero T
	request := c.client.R().SetContext(ctx)
	if payload != nil {
		request.SetBody(payload)
	}
	resp, err := request.Post("/" + method)
	if err != nil {
		return zero, &TransportError{Method: method, Err: err, token: c.cfg.Token}
	}

	envelope := telegramprotocol.Response[T]{}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		c.logger.ErrorCtx(ctx, "Error unmarshalling telegram response",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode()),
			zap.Error(err),
		)
		return zero, &TransportError{Method: method, StatusCode: resp.StatusCode(), Err: err, token: c.cfg.Token}
	}
	if !envelope.OK {
		statusCode := envelope.ErrorCode
		if statusCode == 0 {
			statusCode = resp.StatusCode()
		}
		return zero, &TransportError{
			Method:      method,
			StatusCode:  statusCode,
			Description: envelope.Description,
			token:       c.cfg.Token,
		}
	}
	return envelope.Result, nil
}
