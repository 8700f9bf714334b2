// internal/domain/coupon/coupon_test.go
package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCoupon(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Coupon{}))
	return NewService(db)
}

func TestCreateAndValidate(t *testing.T) {
	svc := setupCoupon(t)

	c, err := svc.Create(&CreateRequest{
		Code: "diwali10", DiscountType: DiscountPercentage, DiscountValue: 10, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "DIWALI10", c.Code)

	// Case-insensitive lookup
	found, err := svc.Validate("Diwali10")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = svc.Validate("NOPE")
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = svc.Create(&CreateRequest{
		Code: "DIWALI10", DiscountType: DiscountFixed, DiscountValue: 100, IsActive: true,
	})
	assert.ErrorIs(t, err, ErrCodeExists)

	_, err = svc.Create(&CreateRequest{
		Code: "BAD", DiscountType: "bogus", DiscountValue: 5,
	})
	assert.Error(t, err)
}

func TestInactiveCoupon(t *testing.T) {
	svc := setupCoupon(t)

	_, err := svc.Create(&CreateRequest{
		Code: "OLD", DiscountType: DiscountFixed, DiscountValue: 50, IsActive: false,
	})
	require.NoError(t, err)

	_, err = svc.Validate("OLD")
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestApplyDiscounts(t *testing.T) {
	tests := []struct {
		name   string
		coupon Coupon
		amount float64
		want   float64
	}{
		{"percentage", Coupon{DiscountType: DiscountPercentage, DiscountValue: 10}, 1030, 927},
		{"fixed", Coupon{DiscountType: DiscountFixed, DiscountValue: 200}, 1030, 830},
		{"flat price", Coupon{DiscountType: DiscountFlatPrice, DiscountValue: 999}, 1030, 999},
		{"fixed over total clamps to zero", Coupon{DiscountType: DiscountFixed, DiscountValue: 2000}, 1030, 0},
		{"percentage rounds to paise", Coupon{DiscountType: DiscountPercentage, DiscountValue: 15}, 999, 849.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.Apply(tt.amount))
		})
	}
}

func TestDelete(t *testing.T) {
	svc := setupCoupon(t)

	c, err := svc.Create(&CreateRequest{
		Code: "GONE", DiscountType: DiscountFixed, DiscountValue: 10, IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(c.ID))
	assert.ErrorIs(t, svc.Delete(c.ID), ErrCouponNotFound)

	coupons, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, coupons)
}
