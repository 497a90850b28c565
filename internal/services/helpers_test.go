package services

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"internship-platform/internal/database"
	"internship-platform/internal/mailer"
	"internship-platform/internal/models"
	"internship-platform/internal/notifier"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	// The shared in-memory DB persists across tests; start clean
	for _, table := range []string{
		"payments", "affiliate_earnings", "orders",
		"referrals", "affiliates", "internship_programs", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	return db
}

// fakeMailer records sent messages for assertions
type fakeMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
}

func (f *fakeMailer) Send(msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMailer) sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.messages...)
}

func newTestNotifier() (*notifier.Notifier, *fakeMailer) {
	fm := &fakeMailer{}
	return notifier.New(fm, 16), fm
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	user := models.User{Name: name, Email: email, Role: models.RoleStudent}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createTestProgram(t *testing.T, db *gorm.DB, price int64, discountPct int64) *models.Program {
	p := decimal.NewFromInt(price)
	pct := decimal.NewFromInt(discountPct)
	program := models.Program{
		Title:              "Backend Engineering Internship",
		Price:              p,
		DiscountPercentage: pct,
		FinalPrice:         p.Sub(p.Mul(pct).Div(decimal.NewFromInt(100))),
		IsActive:           true,
	}
	if err := db.Create(&program).Error; err != nil {
		t.Fatalf("failed to create program: %v", err)
	}
	return &program
}

func createTestReferral(t *testing.T, db *gorm.DB, referrerID uint, code string, discount int64, expiresAt time.Time) *models.Referral {
	referral := models.Referral{
		ReferrerID:     referrerID,
		ReferredEmail:  "invitee@example.com",
		ReferralCode:   code,
		Status:         models.ReferralStatusPending,
		DiscountAmount: decimal.NewFromInt(discount),
		ExpiresAt:      expiresAt,
	}
	if err := db.Create(&referral).Error; err != nil {
		t.Fatalf("failed to create referral: %v", err)
	}
	return &referral
}
