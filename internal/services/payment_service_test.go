package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"internship-platform/internal/models"
)

func TestVerifyPaymentEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	n, fm := newTestNotifier()
	orderSvc := NewOrderService(db)
	paySvc := NewPaymentService(db, n, "")
	ctx := context.Background()

	student := createTestUser(t, db, "Asha", "asha@example.com")
	referrer := createTestUser(t, db, "Ravi", "ravi@example.com")
	program := createTestProgram(t, db, 2000, 0)
	createTestReferral(t, db, referrer.ID, "REFAB12", 499, time.Now().Add(24*time.Hour))

	order, err := orderSvc.CreateOrder(ctx, student.ID, program.ID, "REFAB12")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.FinalAmount.Equal(decimal.NewFromInt(1501)) {
		t.Fatalf("expected final amount 1501, got %s", order.FinalAmount)
	}

	verified, err := paySvc.VerifyPayment(ctx, student.ID, order.OrderNumber, "pay_test123", "")
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if verified.Status != models.OrderStatusPaid {
		t.Errorf("expected status paid, got %s", verified.Status)
	}

	var stored models.Order
	if err := db.Where("order_number = ?", order.OrderNumber).First(&stored).Error; err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	if stored.Status != models.OrderStatusPaid {
		t.Errorf("expected stored status paid, got %s", stored.Status)
	}
	if stored.TransactionID == nil || *stored.TransactionID != "pay_test123" {
		t.Errorf("expected transaction id pay_test123, got %v", stored.TransactionID)
	}

	var referral models.Referral
	if err := db.Where("referral_code = ?", "REFAB12").First(&referral).Error; err != nil {
		t.Fatalf("failed to reload referral: %v", err)
	}
	if referral.Status != models.ReferralStatusCompleted {
		t.Errorf("expected referral completed, got %s", referral.Status)
	}
	if referral.ReferredUserID == nil || *referral.ReferredUserID != student.ID {
		t.Errorf("expected referred user %d, got %v", student.ID, referral.ReferredUserID)
	}
	if referral.UsedAt == nil {
		t.Errorf("expected used_at to be stamped")
	}

	var payments []models.Payment
	if err := db.Where("order_id = ?", stored.ID).Find(&payments).Error; err != nil {
		t.Fatalf("failed to load payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected exactly one payment row, got %d", len(payments))
	}
	if !payments[0].Amount.Equal(stored.FinalAmount) {
		t.Errorf("payment amount %s does not match order final amount %s", payments[0].Amount, stored.FinalAmount)
	}
	if payments[0].Status != models.PaymentStatusSuccess {
		t.Errorf("expected payment status success, got %s", payments[0].Status)
	}

	n.Close()
	sent := fm.sent()
	if len(sent) != 1 {
		t.Fatalf("expected one referrer email, got %d", len(sent))
	}
	if sent[0].To != referrer.Email {
		t.Errorf("expected email to %s, got %s", referrer.Email, sent[0].To)
	}
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	db := setupTestDB(t)
	n, _ := newTestNotifier()
	defer n.Close()
	orderSvc := NewOrderService(db)
	paySvc := NewPaymentService(db, n, "")
	ctx := context.Background()

	student := createTestUser(t, db, "Asha", "asha@example.com")
	program := createTestProgram(t, db, 2000, 10)

	order, err := orderSvc.CreateOrder(ctx, student.ID, program.ID, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := paySvc.VerifyPayment(ctx, student.ID, order.OrderNumber, "pay_first", ""); err != nil {
		t.Fatalf("first VerifyPayment failed: %v", err)
	}
	if _, err := paySvc.VerifyPayment(ctx, student.ID, order.OrderNumber, "pay_second", ""); err != nil {
		t.Fatalf("second VerifyPayment failed: %v", err)
	}

	var payments []models.Payment
	if err := db.Where("order_id = ?", order.ID).Find(&payments).Error; err != nil {
		t.Fatalf("failed to load payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected exactly one payment row after re-verification, got %d", len(payments))
	}
	if !payments[0].Amount.Equal(order.FinalAmount) {
		t.Errorf("payment amount %s does not match order final amount %s", payments[0].Amount, order.FinalAmount)
	}

	// The first settlement's transaction id must survive the retry
	var stored models.Order
	db.Where("id = ?", order.ID).First(&stored)
	if stored.TransactionID == nil || *stored.TransactionID != "pay_first" {
		t.Errorf("expected transaction id pay_first, got %v", stored.TransactionID)
	}
}

func TestVerifyPaymentReferralSingleUse(t *testing.T) {
	db := setupTestDB(t)
	n, fm := newTestNotifier()
	orderSvc := NewOrderService(db)
	paySvc := NewPaymentService(db, n, "")
	ctx := context.Background()

	studentA := createTestUser(t, db, "Asha", "asha@example.com")
	studentB := createTestUser(t, db, "Bina", "bina@example.com")
	referrer := createTestUser(t, db, "Ravi", "ravi@example.com")
	program := createTestProgram(t, db, 2000, 0)
	createTestReferral(t, db, referrer.ID, "REFGH78", 499, time.Now().Add(24*time.Hour))

	// Both orders are created while the referral is still pending
	orderA, err := orderSvc.CreateOrder(ctx, studentA.ID, program.ID, "REFGH78")
	if err != nil {
		t.Fatalf("CreateOrder A failed: %v", err)
	}
	orderB, err := orderSvc.CreateOrder(ctx, studentB.ID, program.ID, "REFGH78")
	if err != nil {
		t.Fatalf("CreateOrder B failed: %v", err)
	}

	if _, err := paySvc.VerifyPayment(ctx, studentA.ID, orderA.OrderNumber, "pay_a", ""); err != nil {
		t.Fatalf("VerifyPayment A failed: %v", err)
	}
	if _, err := paySvc.VerifyPayment(ctx, studentB.ID, orderB.OrderNumber, "pay_b", ""); err != nil {
		t.Fatalf("VerifyPayment B failed: %v", err)
	}

	var referral models.Referral
	db.Where("referral_code = ?", "REFGH78").First(&referral)
	if referral.Status != models.ReferralStatusCompleted {
		t.Errorf("expected referral completed, got %s", referral.Status)
	}
	if referral.ReferredUserID == nil || *referral.ReferredUserID != studentA.ID {
		t.Errorf("referral must stay bound to the first paying student, got %v", referral.ReferredUserID)
	}

	// Both orders settle, but only the first completion notifies
	n.Close()
	if got := len(fm.sent()); got != 1 {
		t.Errorf("expected one referrer email, got %d", got)
	}
}

func TestVerifyPaymentOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	n, _ := newTestNotifier()
	defer n.Close()
	paySvc := NewPaymentService(db, n, "")
	ctx := context.Background()

	student := createTestUser(t, db, "Asha", "asha@example.com")
	other := createTestUser(t, db, "Bina", "bina@example.com")
	program := createTestProgram(t, db, 2000, 0)

	order, err := NewOrderService(db).CreateOrder(ctx, student.ID, program.ID, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Unknown order number
	if _, err := paySvc.VerifyPayment(ctx, student.ID, "ORDMISSING", "pay_x", ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	// Someone else's order number
	if _, err := paySvc.VerifyPayment(ctx, other.ID, order.OrderNumber, "pay_x", ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign order, got %v", err)
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	db := setupTestDB(t)
	n, _ := newTestNotifier()
	defer n.Close()
	orderSvc := NewOrderService(db)
	paySvc := NewPaymentService(db, n, "secret-key")
	ctx := context.Background()

	student := createTestUser(t, db, "Asha", "asha@example.com")
	program := createTestProgram(t, db, 2000, 0)

	order, err := orderSvc.CreateOrder(ctx, student.ID, program.ID, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := paySvc.VerifyPayment(ctx, student.ID, order.OrderNumber, "pay_x", "bogus"); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	mac := hmac.New(sha256.New, []byte("secret-key"))
	mac.Write([]byte(order.OrderNumber + "|pay_x"))
	signature := hex.EncodeToString(mac.Sum(nil))

	if _, err := paySvc.VerifyPayment(ctx, student.ID, order.OrderNumber, "pay_x", signature); err != nil {
		t.Fatalf("VerifyPayment with valid signature failed: %v", err)
	}
}

func TestVerifyPaymentAffiliateAccrual(t *testing.T) {
	db := setupTestDB(t)
	n, _ := newTestNotifier()
	defer n.Close()
	paySvc := NewPaymentService(db, n, "")
	ctx := context.Background()

	student := createTestUser(t, db, "Asha", "asha@example.com")
	partner := createTestUser(t, db, "Ravi", "ravi@example.com")
	program := createTestProgram(t, db, 1000, 0)

	affiliate, err := NewAffiliateService(db).Apply(ctx, partner.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	discountType := models.DiscountTypeAffiliate
	order := models.Order{
		StudentID:    student.ID,
		ProgramID:    program.ID,
		OrderNumber:  "ORDAFF1",
		Amount:       decimal.NewFromInt(1000),
		FinalAmount:  decimal.NewFromInt(1000),
		Currency:     models.DefaultCurrency,
		Status:       models.OrderStatusPending,
		ReferralCode: &affiliate.AffiliateCode,
		DiscountType: &discountType,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if _, err := paySvc.VerifyPayment(ctx, student.ID, order.OrderNumber, "pay_aff", ""); err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}

	var earning models.AffiliateEarning
	if err := db.Where("order_id = ?", order.ID).First(&earning).Error; err != nil {
		t.Fatalf("expected an affiliate earning row: %v", err)
	}
	// 25% of 1000
	if !earning.CommissionAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected commission 250, got %s", earning.CommissionAmount)
	}
	if earning.Status != models.EarningStatusPending {
		t.Errorf("expected earning status pending, got %s", earning.Status)
	}

	var stored models.Affiliate
	db.Where("id = ?", affiliate.ID).First(&stored)
	if stored.TotalReferrals != 1 {
		t.Errorf("expected total referrals 1, got %d", stored.TotalReferrals)
	}
	if !stored.TotalEarnings.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected total earnings 250, got %s", stored.TotalEarnings)
	}
}
