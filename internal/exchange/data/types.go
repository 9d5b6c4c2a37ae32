package data

import (
	"encoding/json"
	"fmt"
	"github.com/shopspring/decimal"
	"strings"
	"time"
)

type Status string

const (
	NullStatus       = Status("")
	PendingStatus    = Status("pending")
	ProcessingStatus = Status("processing")
	CompletedStatus  = Status("completed")
	RejectedStatus   = Status("rejected")
)

// SellOrderType is the only order type the web form produces.
const SellOrderType = "sell"

func ParseStatus(value string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(value))); status {
	case PendingStatus, ProcessingStatus, CompletedStatus, RejectedStatus:
		return status, nil
	}
	return NullStatus, &ValidationError{
		Field:  "status",
		Reason: fmt.Sprintf("unknown status %q", value),
	}
}

func (s Status) IsTerminal() bool {
	return s == CompletedStatus || s == RejectedStatus
}

// Amount is a decimal that is encoded as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// Timestamp is written as RFC 3339. On read it also accepts ISO-8601 local
// date-times without an offset, which are taken as UTC.
type Timestamp struct {
	time.Time
}

const localDateTimeLayout = "2006-01-02T15:04:05"

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return t.Time.MarshalJSON() //nolint:wrapcheck // unnecessary
}

func (t *Timestamp) UnmarshalJSON(raw []byte) error {
	if string(raw) == "null" {
		return nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if value == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		parsed, err = time.ParseInLocation(localDateTimeLayout, value, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
	}
	t.Time = parsed
	return nil
}

type Order struct {
	ID            int       `json:"id"`
	Type          string    `json:"type"`
	ExmoCode      string    `json:"exmoCode"`
	GiveAmount    Amount    `json:"giveAmount"`
	ReceiveAmount Amount    `json:"receiveAmount"`
	FullName      string    `json:"fullName"`
	Phone         string    `json:"phone"`
	Bank          string    `json:"bank"`
	Status        Status    `json:"status"`
	CreatedAt     Timestamp `json:"createdAt"`
}

// NextOrderID returns max(id)+1, or 1 for an empty collection.
func NextOrderID(orders []Order) int {
	maxID := 0
	for _, order := range orders {
		if order.ID > maxID {
			maxID = order.ID
		}
	}
	return maxID + 1
}
