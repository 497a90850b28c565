package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
	OrderStatusCancelled = "cancelled"
)

// Discount sources; at most one applies per order
const (
	DiscountTypeReferral  = "referral"
	DiscountTypeAffiliate = "affiliate"
	DiscountTypeCoupon    = "coupon"
)

// DefaultCurrency is the settlement currency for all orders and payments
const DefaultCurrency = "INR"

// Order represents an enrollment order for an internship program.
// Created pending, transitions once to paid. final_amount = max(amount - discount_amount, 0).
type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	StudentID      uint            `gorm:"not null;index" json:"student_id"`
	Student        *User           `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ProgramID      uint            `gorm:"not null;index" json:"program_id"`
	Program        *Program        `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	OrderNumber    string          `gorm:"uniqueIndex;size:40;not null" json:"order_number"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_amount"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_amount"`
	Currency       string          `gorm:"size:3;default:INR" json:"currency"`
	Status         string          `gorm:"size:20;default:pending;index" json:"status"`
	PaymentMethod  *string         `gorm:"size:30" json:"payment_method,omitempty"`
	TransactionID  *string         `gorm:"size:100" json:"transaction_id,omitempty"`
	ReferralCode   *string         `gorm:"size:20;index" json:"referral_code,omitempty"`
	DiscountType   *string         `gorm:"size:20" json:"discount_type,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
