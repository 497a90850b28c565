package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"internship-platform/internal/models"
)

type ProgramService struct {
	db *gorm.DB
}

func NewProgramService(db *gorm.DB) *ProgramService {
	return &ProgramService{db: db}
}

// ProgramInput carries the writable program fields for admin CRUD
type ProgramInput struct {
	Title              string          `json:"title" binding:"required"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price" binding:"required"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	MaxParticipants    int             `json:"max_participants"`
	IsActive           *bool           `json:"is_active"`
}

// ListActive returns all programs open for enrollment
func (s *ProgramService) ListActive(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

// GetByID returns a single active program
func (s *ProgramService) GetByID(ctx context.Context, id uint) (*models.Program, error) {
	var program models.Program
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&program).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

// Create persists a new program; final_price is derived from price and
// discount_percentage
func (s *ProgramService) Create(ctx context.Context, input ProgramInput) (*models.Program, error) {
	program := models.Program{
		Title:              input.Title,
		Description:        input.Description,
		Price:              input.Price,
		DiscountPercentage: input.DiscountPercentage,
		FinalPrice:         finalPrice(input.Price, input.DiscountPercentage),
		MaxParticipants:    input.MaxParticipants,
		IsActive:           true,
	}
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&program).Error; err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return &program, nil
}

// Update rewrites a program's writable fields and recomputes final_price
func (s *ProgramService) Update(ctx context.Context, id uint, input ProgramInput) (*models.Program, error) {
	var program models.Program
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	program.Title = input.Title
	program.Description = input.Description
	program.Price = input.Price
	program.DiscountPercentage = input.DiscountPercentage
	program.FinalPrice = finalPrice(input.Price, input.DiscountPercentage)
	program.MaxParticipants = input.MaxParticipants
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Save(&program).Error; err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	return &program, nil
}

func finalPrice(price, discountPct decimal.Decimal) decimal.Decimal {
	discount := price.Mul(discountPct).Div(decimal.NewFromInt(100))
	final := price.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}
