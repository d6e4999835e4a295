package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PriceTier represents which of the four product prices applies to a line
type PriceTier string

const (
	PriceTierDealerCash   PriceTier = "DEALER_CASH"
	PriceTierDealerCredit PriceTier = "DEALER_CREDIT"
	PriceTierHotelCash    PriceTier = "HOTEL_CASH"
	PriceTierHotelCredit  PriceTier = "HOTEL_CREDIT"
)

// OrderItem represents one line of an order
type OrderItem struct {
	ProductID string    `json:"product_id"`
	Qty       float64   `json:"qty"`
	UnitPrice float64   `json:"unit_price"`
	Tier      PriceTier `json:"tier"`
}

// Subtotal returns the line total.
func (i OrderItem) Subtotal() float64 {
	return i.Qty * i.UnitPrice
}

// Order represents a customer order
type Order struct {
	ID         string      `json:"id"`
	Code       string      `json:"code"`
	CustomerID string      `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	OrderedAt  time.Time   `json:"ordered_at"`
	CreatedBy  string      `json:"created_by"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewOrder creates a new pending order and computes its total
func NewOrder(code, customerID string, items []OrderItem, createdBy string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	now := time.Now()
	order := &Order{
		ID:         uuid.New().String(),
		Code:       code,
		CustomerID: customerID,
		Status:     OrderStatusPending,
		Items:      items,
		OrderedAt:  now,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, item := range items {
		order.Total += item.Subtotal()
	}
	return order, nil
}

// Deliver marks the order as delivered
func (o *Order) Deliver() error {
	if o.Status == OrderStatusDelivered {
		return ErrOrderDelivered
	}
	o.Status = OrderStatusDelivered
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels the order
func (o *Order) Cancel() error {
	if o.Status == OrderStatusDelivered {
		return ErrOrderDelivered
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// OrderFilter represents filters for listing orders
type OrderFilter struct {
	CustomerID *string      `json:"customer_id,omitempty"`
	Status     *OrderStatus `json:"status,omitempty"`
	From       *time.Time   `json:"from,omitempty"`
	To         *time.Time   `json:"to,omitempty"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}

// SalesSummary aggregates delivered orders for a report window
type SalesSummary struct {
	From        time.Time            `json:"from"`
	To          time.Time            `json:"to"`
	OrderCount  int                  `json:"order_count"`
	TotalAmount float64              `json:"total_amount"`
	ByCategory  map[string]float64   `json:"by_category"`
	TopProducts []ProductSalesTotals `json:"top_products"`
}

// ProductSalesTotals is one row of a sales report
type ProductSalesTotals struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Qty         float64 `json:"qty"`
	Amount      float64 `json:"amount"`
}
