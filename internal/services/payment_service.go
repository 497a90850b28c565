package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"internship-platform/internal/mailer"
	"internship-platform/internal/models"
	"internship-platform/internal/notifier"
)

const gatewayName = "razorpay"

var decimalHundred = decimal.NewFromInt(100)

type PaymentService struct {
	db            *gorm.DB
	notifier      *notifier.Notifier
	gatewaySecret string
}

func NewPaymentService(db *gorm.DB, n *notifier.Notifier, gatewaySecret string) *PaymentService {
	return &PaymentService{
		db:            db,
		notifier:      n,
		gatewaySecret: gatewaySecret,
	}
}

// VerifyPayment settles an order: the order flips to paid, a payment row is
// written, a pending referral carried by the order completes, and an
// affiliate order accrues commission. All of it commits in one transaction
// or none of it does. Re-verifying an already-paid order is a no-op success.
//
// orderNumber is the human-readable order number scoped to the calling
// student, not the primary key.
func (s *PaymentService) VerifyPayment(ctx context.Context, studentID uint, orderNumber, paymentID, signature string) (*models.Order, error) {
	if err := s.verifySignature(orderNumber, paymentID, signature); err != nil {
		return nil, err
	}

	var order models.Order
	var completedReferral *models.Referral

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_number = ? AND student_id = ?", orderNumber, studentID).
			First(&order).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		// Idempotent re-verification: the order is already settled and has
		// its payment row; do not write a second one.
		if order.Status == models.OrderStatusPaid {
			return nil
		}

		now := time.Now()
		paymentMethod := gatewayName
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":         models.OrderStatusPaid,
			"payment_method": paymentMethod,
			"transaction_id": paymentID,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}

		if order.ReferralCode != nil {
			ref, err := s.completeReferral(tx, *order.ReferralCode, studentID, now)
			if err != nil {
				return err
			}
			completedReferral = ref
		}

		payment := models.Payment{
			ID:               uuid.New(),
			OrderID:          order.ID,
			Amount:           order.FinalAmount,
			Currency:         models.DefaultCurrency,
			Gateway:          gatewayName,
			GatewayPaymentID: paymentID,
			Status:           models.PaymentStatusSuccess,
			ProcessedAt:      &now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if order.DiscountType != nil && *order.DiscountType == models.DiscountTypeAffiliate {
			if err := s.accrueAffiliateEarning(tx, &order); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusPaid

	// Referrer notification goes out only after commit, off the request path
	if completedReferral != nil && completedReferral.Referrer != nil {
		s.notifier.Enqueue(mailer.Message{
			To:      completedReferral.Referrer.Email,
			Subject: "Your referral just completed",
			Body: fmt.Sprintf("Good news %s! Someone enrolled using your referral code %s. They saved ₹%s thanks to you.",
				completedReferral.Referrer.Name, completedReferral.ReferralCode, completedReferral.DiscountAmount.StringFixed(2)),
		})
	}

	log.Printf("Verified payment %s for order %s (student %d)", paymentID, orderNumber, studentID)
	return &order, nil
}

// completeReferral consumes a pending referral exactly once. The guarded
// UPDATE makes the transition race-safe: a concurrent verifier loses the
// guard, affects zero rows, and skips the notification.
func (s *PaymentService) completeReferral(tx *gorm.DB, code string, studentID uint, now time.Time) (*models.Referral, error) {
	res := tx.Model(&models.Referral{}).
		Where("referral_code = ? AND status = ?", code, models.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":           models.ReferralStatusCompleted,
			"used_at":          now,
			"referred_user_id": studentID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to complete referral: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Already completed or expired; silently skipped
		return nil, nil
	}

	var referral models.Referral
	if err := tx.Preload("Referrer").Where("referral_code = ?", code).First(&referral).Error; err != nil {
		return nil, fmt.Errorf("failed to reload referral: %w", err)
	}
	return &referral, nil
}

// accrueAffiliateEarning writes the commission ledger row for an
// affiliate-discounted order and bumps the affiliate's running totals
func (s *PaymentService) accrueAffiliateEarning(tx *gorm.DB, order *models.Order) error {
	if order.ReferralCode == nil {
		return nil
	}

	var affiliate models.Affiliate
	err := tx.Where("affiliate_code = ? AND status = ?", *order.ReferralCode, models.AffiliateStatusActive).
		First(&affiliate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("No active affiliate for code %s, skipping accrual on order %s", *order.ReferralCode, order.OrderNumber)
			return nil
		}
		return fmt.Errorf("failed to load affiliate: %w", err)
	}

	commission := order.FinalAmount.Mul(affiliate.CommissionRate).Div(decimalHundred)

	earning := models.AffiliateEarning{
		AffiliateID:      affiliate.ID,
		OrderID:          order.ID,
		CommissionAmount: commission,
		Status:           models.EarningStatusPending,
	}
	if err := tx.Create(&earning).Error; err != nil {
		return fmt.Errorf("failed to record affiliate earning: %w", err)
	}

	if err := tx.Model(&affiliate).Updates(map[string]interface{}{
		"total_referrals": gorm.Expr("total_referrals + 1"),
		"total_earnings":  gorm.Expr("total_earnings + ?", commission),
	}).Error; err != nil {
		return fmt.Errorf("failed to update affiliate totals: %w", err)
	}

	return nil
}

// verifySignature checks the gateway's HMAC-SHA256 signature over
// "<orderNumber>|<paymentID>". An empty configured secret disables the
// check (development mode).
func (s *PaymentService) verifySignature(orderNumber, paymentID, signature string) error {
	if s.gatewaySecret == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(s.gatewaySecret))
	mac.Write([]byte(orderNumber + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
