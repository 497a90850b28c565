package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"internship-platform/internal/models"
)

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder creates a pending enrollment order for a program, applying at
// most one discount source: the larger of the program's percentage discount
// and the referral's flat discount. An unresolvable referral code never
// blocks checkout; the order proceeds on the program discount alone.
func (s *OrderService) CreateOrder(ctx context.Context, studentID, programID uint, referralCode string) (*models.Order, error) {
	var program models.Program
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", programID, true).
		First(&program).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	// Duplicate-enrollment check. The partial unique index on
	// (student_id, program_id) for pending/paid orders backstops the race
	// between two concurrent creates.
	var existing int64
	err = s.db.WithContext(ctx).Model(&models.Order{}).
		Where("student_id = ? AND program_id = ? AND status IN ?",
			studentID, programID, []string{models.OrderStatusPending, models.OrderStatusPaid}).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing orders: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateOrder
	}

	amount := program.Price
	discountAmount := amount.Mul(program.DiscountPercentage).Div(decimal.NewFromInt(100))
	finalAmount := program.FinalPrice

	order := models.Order{
		StudentID: studentID,
		ProgramID: programID,
		Amount:    amount,
		Currency:  models.DefaultCurrency,
		Status:    models.OrderStatusPending,
	}

	if referralCode != "" {
		referral, err := s.lookupRedeemableReferral(ctx, referralCode)
		if err != nil {
			return nil, err
		}
		if referral != nil {
			refDiscount := referral.DiscountAmount
			if refDiscount.GreaterThan(discountAmount) {
				discountAmount = refDiscount
			}
			finalAmount = amount.Sub(discountAmount)
			if finalAmount.IsNegative() {
				finalAmount = decimal.Zero
			}
			discountType := models.DiscountTypeReferral
			order.DiscountType = &discountType
			order.ReferralCode = &referral.ReferralCode
		} else {
			// Bad referral codes must not prevent checkout
			log.Printf("Ignoring unresolvable referral code %s on order for student %d", referralCode, studentID)
		}
	}

	orderNumber, err := newOrderNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	order.OrderNumber = orderNumber
	order.DiscountAmount = discountAmount
	order.FinalAmount = finalAmount

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Program = &program
	log.Printf("Created order %s for student %d, program %d (final %s)",
		order.OrderNumber, studentID, programID, order.FinalAmount)
	return &order, nil
}

// GetStudentOrders returns a student's orders, newest first
func (s *OrderService) GetStudentOrders(ctx context.Context, studentID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Program").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// lookupRedeemableReferral resolves a referral code that is still pending and
// unexpired. A nil referral with nil error means the code did not resolve.
func (s *OrderService) lookupRedeemableReferral(ctx context.Context, code string) (*models.Referral, error) {
	var referral models.Referral
	err := s.db.WithContext(ctx).
		Where("referral_code = ? AND status = ? AND expires_at > ?",
			code, models.ReferralStatusPending, time.Now()).
		First(&referral).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up referral: %w", err)
	}
	return &referral, nil
}
