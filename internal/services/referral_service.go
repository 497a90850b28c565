package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"internship-platform/internal/mailer"
	"internship-platform/internal/models"
	"internship-platform/internal/notifier"
)

// Referral invites expire 30 days after creation
const referralValidity = 30 * 24 * time.Hour

// defaultReferralDiscount is the flat discount a redeemed referral grants
var defaultReferralDiscount = decimal.NewFromInt(499)

type ReferralService struct {
	db          *gorm.DB
	notifier    *notifier.Notifier
	frontendURL string
}

func NewReferralService(db *gorm.DB, n *notifier.Notifier, frontendURL string) *ReferralService {
	return &ReferralService{
		db:          db,
		notifier:    n,
		frontendURL: frontendURL,
	}
}

// GenerateReferral issues a single-use invite code for an email address.
// One invite per target email per referrer. The invite and confirmation
// emails are best-effort; the persisted referral is authoritative either way.
func (s *ReferralService) GenerateReferral(ctx context.Context, ownerID uint, referredEmail string) (*models.Referral, error) {
	var existing int64
	err := s.db.WithContext(ctx).Model(&models.Referral{}).
		Where("referrer_id = ? AND referred_email = ?", ownerID, referredEmail).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing referrals: %w", err)
	}
	if existing > 0 {
		return nil, ErrReferralExists
	}

	var owner models.User
	if err := s.db.WithContext(ctx).Where("id = ?", ownerID).First(&owner).Error; err != nil {
		return nil, fmt.Errorf("failed to load referrer: %w", err)
	}

	code, err := randomCode("REF", 6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral code: %w", err)
	}

	referral := models.Referral{
		ReferrerID:     ownerID,
		ReferredEmail:  referredEmail,
		ReferralCode:   code,
		Status:         models.ReferralStatusPending,
		DiscountAmount: defaultReferralDiscount,
		ExpiresAt:      time.Now().Add(referralValidity),
	}

	if err := s.db.WithContext(ctx).Create(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReferralExists
		}
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	s.notifier.Enqueue(mailer.Message{
		To:      referredEmail,
		Subject: fmt.Sprintf("%s invited you to join", owner.Name),
		Body: fmt.Sprintf("%s has invited you to enroll. Sign up with their code and save ₹%s: %s/signup?ref=%s",
			owner.Name, referral.DiscountAmount.StringFixed(2), s.frontendURL, code),
	})
	s.notifier.Enqueue(mailer.Message{
		To:      owner.Email,
		Subject: "Your referral invite is on its way",
		Body:    fmt.Sprintf("We sent your referral code %s to %s. It expires on %s.", code, referredEmail, referral.ExpiresAt.Format("02 Jan 2006")),
	})

	log.Printf("Generated referral code %s from user %d to %s", code, ownerID, referredEmail)
	return &referral, nil
}

// ValidateReferral is a read-only lookup of a still-redeemable code.
// A code at or past its expiry does not resolve. State only mutates at
// payment verification.
func (s *ReferralService) ValidateReferral(ctx context.Context, code string) (*models.Referral, error) {
	var referral models.Referral
	err := s.db.WithContext(ctx).
		Preload("Referrer").
		Where("referral_code = ? AND status = ?", code, models.ReferralStatusPending).
		First(&referral).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrReferralNotFound
		}
		return nil, fmt.Errorf("failed to look up referral: %w", err)
	}

	if !referral.ExpiresAt.After(time.Now()) {
		return nil, ErrReferralNotFound
	}

	return &referral, nil
}

// GetUserReferrals returns all referrals issued by a user, newest first
func (s *ReferralService) GetUserReferrals(ctx context.Context, ownerID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := s.db.WithContext(ctx).
		Where("referrer_id = ?", ownerID).
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}
