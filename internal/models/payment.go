package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusSuccess  = "success"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment is an append-only settlement record, written only at verification time.
// A paid order has exactly one payment row with matching final_amount.
type Payment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	Order            *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency         string          `gorm:"size:3;default:INR" json:"currency"`
	Gateway          string          `gorm:"size:30" json:"gateway"`
	GatewayPaymentID string          `gorm:"size:100" json:"gateway_payment_id"`
	Status           string          `gorm:"size:20;default:pending" json:"status"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
