package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Affiliate statuses
const (
	AffiliateStatusActive    = "active"
	AffiliateStatusInactive  = "inactive"
	AffiliateStatusSuspended = "suspended"
)

// Affiliate earning statuses
const (
	EarningStatusPending = "pending"
	EarningStatusPaid    = "paid"
)

// Affiliate is a partner account, one per user, earning a percentage
// commission on orders placed with its code.
type Affiliate struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AffiliateCode  string          `gorm:"uniqueIndex;size:20;not null" json:"affiliate_code"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	TotalReferrals int             `gorm:"default:0" json:"total_referrals"`
	TotalEarnings  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_earnings"`
	Status         string          `gorm:"size:20;default:active" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Affiliate) TableName() string {
	return "affiliates"
}

// AffiliateEarning is the per-order commission ledger for an affiliate
type AffiliateEarning struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	AffiliateID      uint            `gorm:"not null;index" json:"affiliate_id"`
	Affiliate        *Affiliate      `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	OrderID          uint            `gorm:"not null;index" json:"order_id"`
	Order            *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"commission_amount"`
	Status           string          `gorm:"size:20;default:pending;index" json:"status"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (AffiliateEarning) TableName() string {
	return "affiliate_earnings"
}
