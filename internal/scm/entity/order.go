package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Purchase order statuses. Completion means goods received.
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus rejects anything outside the enumerated set before it can
// reach the lifecycle engine.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Order aggregates its items; TotalAmount is computed at creation and only
// ever rewritten by a full line-item replace.
type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SupplierID  string          `json:"supplier_id" gorm:"type:uuid;not null;index"`
	OrderDate   time.Time       `json:"order_date" gorm:"not null"`
	Status      OrderStatus     `json:"status" gorm:"size:20;not null;default:PENDING"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Supplier *Supplier   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "scm_orders"
}

// OrderItem freezes the product's unit price and cost at order-creation time.
// Later catalog price changes must not alter existing items or totals.
type OrderItem struct {
	ID        string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID   string           `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID string           `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int              `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal  `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	Cost      *decimal.Decimal `json:"cost" gorm:"type:decimal(12,2)"`
	CreatedAt time.Time        `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (OrderItem) TableName() string {
	return "scm_order_items"
}

// CostOrZero treats a missing cost snapshot as zero.
func (i *OrderItem) CostOrZero() decimal.Decimal {
	if i.Cost == nil {
		return decimal.Zero
	}
	return *i.Cost
}

// StockDelta is one product-quantity adjustment produced by a status
// transition.
type StockDelta struct {
	ProductID string
	Quantity  int
}

// StockDeltas maps a status transition onto the product adjustments it
// requires. Entering COMPLETED receives goods (+qty per line); leaving
// COMPLETED reverses that exact increase, so toggling is stock-neutral over
// any even number of transitions. Every other transition, including setting
// the current status again, is a no-op.
func StockDeltas(from, to OrderStatus, items []OrderItem) []StockDelta {
	var sign int
	switch {
	case from != OrderStatusCompleted && to == OrderStatusCompleted:
		sign = 1
	case from == OrderStatusCompleted && to != OrderStatusCompleted:
		sign = -1
	default:
		return nil
	}

	deltas := make([]StockDelta, 0, len(items))
	for _, item := range items {
		deltas = append(deltas, StockDelta{ProductID: item.ProductID, Quantity: sign * item.Quantity})
	}
	return deltas
}
