package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order mirrors the commerce backend's order record locally so the return
// leg can reconcile a capture against what was actually sent to the gateway.
type Order struct {
	OrderNumber   string `gorm:"primaryKey;size:64;not null"` // backend order id
	CustomerID    string `gorm:"size:64;index;not null"`
	CustomerEmail string `gorm:"size:128"`
	Status        string `gorm:"size:32;index;not null"` // CREATED, COMPLETED
	AddressSource string `gorm:"size:16;not null"`       // PROFILE, CHECKOUT

	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:8;not null"`

	// set once the gateway session / capture exist
	GatewayOrderID string `gorm:"size:64;index"`
	CaptureID      string `gorm:"size:64"`
	PayerID        string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.order_number
	OrderNumber string          `gorm:"size:64;index;not null"`
	ProductID   string          `gorm:"size:64;index;not null"`
	Quantity    int32           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:8;not null"`

	CreatedAt time.Time
}

// CorrelationRecord carries {gatewayOrderId, orderNumber} across the
// redirect to the gateway and back. One row per customer: a new checkout
// attempt overwrites the previous record rather than appending.
type CorrelationRecord struct {
	CustomerID     string `gorm:"primaryKey;size:64;not null"`
	GatewayOrderID string `gorm:"size:64;not null"`
	OrderNumber    string `gorm:"size:64;not null"`
	UpdatedAt      time.Time
}

const (
	OrderStatusCreated   = "CREATED"
	OrderStatusCompleted = "COMPLETED"
)
