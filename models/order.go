package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending        OrderStatus = "PENDING"          // Order placed, awaiting acceptance
	OrderStatusAccepted       OrderStatus = "ACCEPTED"         // Accepted by the shop
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY" // Handed to the courier
	OrderStatusDelivered      OrderStatus = "DELIVERED"        // Customer received the order
	OrderStatusCancelled      OrderStatus = "CANCELLED"        // Cancelled before dispatch
)

// statusTransitions lists the legal next statuses for each order status.
// DELIVERED and CANCELLED are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:       {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a request string to an OrderStatus.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(status)) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusAccepted:
		return OrderStatusAccepted, nil
	case OrderStatusOutForDelivery:
		return OrderStatusOutForDelivery, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderRef  string          `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	NetAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"net_amount"`
	Address   string          `gorm:"not null" json:"address"` // formatted shipping address snapshot
	Status    OrderStatus     `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Events    []OrderEvent    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem is an immutable snapshot of one cart line at checkout time. The
// order's NetAmount is the authoritative total; no price is stored per item.
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index" json:"order_id"`
	ProductID uint `gorm:"not null" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}

// OrderEvent is one row of an order's append-only status history. The first
// event of every order is PENDING and Order.Status always mirrors the latest one.
type OrderEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);not null" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
