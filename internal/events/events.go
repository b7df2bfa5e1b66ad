package events

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/shopspring/decimal"
)

// Event types published for gateway transactions
const (
	EventTypeProcessed = "payment.processed"
	EventTypeCaptured  = "payment.captured"
	EventTypeRefunded  = "payment.refunded"
	EventTypeFailed    = "payment.failed"
)

// TransactionEvent describes one gateway transaction made by the plugin
type TransactionEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	StoreID       int             `json:"store_id"`
	OrderGUID     string          `json:"order_guid,omitempty"`
	OrderID       int             `json:"order_id,omitempty"`
	CustomerID    int             `json:"customer_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	PaymentStatus string          `json:"payment_status,omitempty"`
	Mode          string          `json:"transaction_mode,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Sandbox       bool            `json:"sandbox"`
	Recurring     bool            `json:"recurring,omitempty"`
	Message       string          `json:"message,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewTransactionEvent creates an event with a fresh id and timestamp
func NewTransactionEvent(eventType string, storeID int) *TransactionEvent {
	return &TransactionEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		StoreID:   storeID,
		Amount:    decimal.Zero,
		Timestamp: time.Now().UTC(),
	}
}

// WithStatus sets the payment status name
func (e *TransactionEvent) WithStatus(status domain.PaymentStatus) *TransactionEvent {
	e.PaymentStatus = status.String()
	return e
}

// Key returns the record key; events of one order land on one partition
func (e *TransactionEvent) Key() string {
	if e.OrderGUID != "" {
		return e.OrderGUID
	}
	if e.OrderID != 0 {
		return strconv.Itoa(e.OrderID)
	}
	return e.EventID
}

// Publisher publishes transaction events
type Publisher interface {
	Publish(ctx context.Context, event *TransactionEvent) error
}
