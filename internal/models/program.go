package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Program represents an internship program students can enroll into.
// Pricing fields are treated as immutable during an order's lifetime.
type Program struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	Title               string          `gorm:"size:200;not null" json:"title"`
	Description         string          `gorm:"size:2000" json:"description,omitempty"`
	Price               decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPercentage  decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percentage"`
	FinalPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_price"`
	MaxParticipants     int             `gorm:"default:0" json:"max_participants"`
	CurrentParticipants int             `gorm:"default:0" json:"current_participants"`
	IsActive            bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (Program) TableName() string {
	return "internship_programs"
}
