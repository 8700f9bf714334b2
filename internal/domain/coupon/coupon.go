// internal/domain/coupon/coupon.go
package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrCouponNotFound is returned for unknown coupon codes
	ErrCouponNotFound = errors.New("invalid coupon code")
	// ErrCouponInactive is returned when a known coupon is disabled
	ErrCouponInactive = errors.New("coupon is inactive")
	// ErrCodeExists is returned when creating a duplicate code
	ErrCodeExists = errors.New("coupon code already exists")
)

// DiscountType enumerates the supported discount shapes
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountFlatPrice  DiscountType = "flat_price"
)

// Coupon represents a discount code
type Coupon struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"uniqueIndex;not null;size:50" json:"code"`
	DiscountType  DiscountType `gorm:"not null;size:20" json:"discount_type"`
	DiscountValue float64      `gorm:"not null" json:"discount_value"`
	IsActive      bool         `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName overrides the table name
func (Coupon) TableName() string { return "coupons" }

// Service manages discount codes
type Service struct {
	db *gorm.DB
}

// NewService creates a new coupon service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateRequest carries a new coupon
type CreateRequest struct {
	Code          string       `json:"code" binding:"required"`
	DiscountType  DiscountType `json:"discount_type" binding:"required"`
	DiscountValue float64      `json:"discount_value" binding:"required,gt=0"`
	IsActive      bool         `json:"is_active"`
}

// Create stores a coupon. Codes are uppercased so validation is
// case-insensitive.
func (s *Service) Create(req *CreateRequest) (*Coupon, error) {
	switch req.DiscountType {
	case DiscountPercentage, DiscountFixed, DiscountFlatPrice:
	default:
		return nil, fmt.Errorf("unsupported discount type: %s", req.DiscountType)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var existing Coupon
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, ErrCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	c := &Coupon{
		Code:          code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		IsActive:      req.IsActive,
	}
	if err := s.db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return c, nil
}

// List returns all coupons
func (s *Service) List() ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// Delete removes a coupon
func (s *Service) Delete(id uint) error {
	result := s.db.Delete(&Coupon{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// Validate resolves a code to an active coupon. Lookup is
// case-insensitive since customers type codes freehand.
func (s *Service) Validate(code string) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var c Coupon
	if err := s.db.Where("code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if !c.IsActive {
		return nil, ErrCouponInactive
	}
	return &c, nil
}

// Apply returns the discounted total for a cart amount, rounded to two
// decimals and never below zero.
func (c *Coupon) Apply(amount float64) float64 {
	total := decimal.NewFromFloat(amount)
	value := decimal.NewFromFloat(c.DiscountValue)

	var discounted decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(value.Div(decimal.NewFromInt(100)))
		discounted = total.Mul(factor)
	case DiscountFixed:
		discounted = total.Sub(value)
	case DiscountFlatPrice:
		discounted = value
	default:
		discounted = total
	}

	if discounted.IsNegative() {
		return 0
	}
	result, _ := discounted.Round(2).Float64()
	return result
}
