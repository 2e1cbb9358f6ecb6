package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "OrderPlaced"

type Event interface {
	EventType() string
}

// OrderPlaced is published after an order is stored.
type OrderPlaced struct {
	OrderID     string          `json:"order_id"`
	CustomerID  string          `json:"customer_id"`
	Email       string          `json:"email"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	PlacedAt    time.Time       `json:"placed_at"`
}

func (OrderPlaced) EventType() string { return EventOrderPlaced }
