package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"internship-platform/internal/models"
)

// All affiliates earn the same fixed commission rate
var defaultCommissionRate = decimal.NewFromInt(25)

type AffiliateService struct {
	db *gorm.DB
}

func NewAffiliateService(db *gorm.DB) *AffiliateService {
	return &AffiliateService{db: db}
}

// Apply creates an affiliate account for a user. One account per user.
func (s *AffiliateService) Apply(ctx context.Context, userID uint) (*models.Affiliate, error) {
	var existing int64
	err := s.db.WithContext(ctx).Model(&models.Affiliate{}).
		Where("user_id = ?", userID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing affiliate: %w", err)
	}
	if existing > 0 {
		return nil, ErrAffiliateExists
	}

	code, err := randomCode("AFF", 6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate affiliate code: %w", err)
	}

	affiliate := models.Affiliate{
		UserID:         userID,
		AffiliateCode:  code,
		CommissionRate: defaultCommissionRate,
		TotalEarnings:  decimal.Zero,
		Status:         models.AffiliateStatusActive,
	}

	if err := s.db.WithContext(ctx).Create(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAffiliateExists
		}
		return nil, fmt.Errorf("failed to create affiliate: %w", err)
	}

	log.Printf("Created affiliate account %s for user %d", code, userID)
	return &affiliate, nil
}

// GetByUserID returns a user's affiliate account
func (s *AffiliateService) GetByUserID(ctx context.Context, userID uint) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&affiliate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAffiliateNotFound
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetEarnings returns the commission ledger for an affiliate, newest first
func (s *AffiliateService) GetEarnings(ctx context.Context, affiliateID uint) ([]models.AffiliateEarning, error) {
	var earnings []models.AffiliateEarning
	err := s.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Find(&earnings).Error
	if err != nil {
		return nil, err
	}
	return earnings, nil
}
