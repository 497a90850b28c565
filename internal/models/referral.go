package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral statuses
const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
	ReferralStatusExpired   = "expired"
)

// Referral is an invite from a referrer to an email address. The code is
// single-use: it completes exactly once, when an order carrying it is paid.
type Referral struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ReferrerID     uint            `gorm:"not null;index" json:"referrer_id"`
	Referrer       *User           `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredEmail  string          `gorm:"size:255;not null;index" json:"referred_email"`
	ReferredUserID *uint           `gorm:"index" json:"referred_user_id,omitempty"`
	ReferralCode   string          `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	Status         string          `gorm:"size:20;default:pending;index" json:"status"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:499" json:"discount_amount"`
	UsedAt         *time.Time      `json:"used_at,omitempty"`
	ExpiresAt      time.Time       `gorm:"not null" json:"expires_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
