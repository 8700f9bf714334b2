// internal/domain/customer/service_test.go
package customer

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/varahajewels/ecommerce-backend/internal/config"
)

func setupCustomer(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Customer{}))

	cfg := &config.Config{}
	cfg.App.Name = "test"
	cfg.JWT.Secret = "test-secret-key-at-least-32-chars-long"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = 4

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewService(db, cfg, logger)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupCustomer(t)

	resp, err := svc.Register(&RegisterRequest{
		Email:     "Priya@Example.com",
		Password:  "secure1234",
		FirstName: "Priya",
		LastName:  "Sharma",
		Phone:     "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", resp.Customer.Email)
	assert.NotEmpty(t, resp.Customer.UUID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.Customer.Password)
	assert.False(t, resp.Customer.IsGuest)

	login, err := svc.Login(&LoginRequest{Email: "priya@example.com", Password: "secure1234"})
	require.NoError(t, err)
	assert.Equal(t, resp.Customer.ID, login.Customer.ID)
	assert.NotNil(t, login.Customer.LastLoginAt)

	_, err = svc.Login(&LoginRequest{Email: "priya@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupCustomer(t)

	_, err := svc.Register(&RegisterRequest{
		Email: "priya@example.com", Password: "secure1234", FirstName: "Priya",
	})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{
		Email: "priya@example.com", Password: "other12345", FirstName: "Other",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGuestCheckoutCreatesCustomer(t *testing.T) {
	svc := setupCustomer(t)

	c, err := svc.EnsureForCheckout("Ananya Verma", "ananya@example.com", "9811111111")
	require.NoError(t, err)
	assert.True(t, c.IsGuest)
	assert.Equal(t, "Ananya", c.FirstName)
	assert.Equal(t, "Verma", c.LastName)

	// Second checkout reuses the same row
	again, err := svc.EnsureForCheckout("Ananya V", "ANANYA@example.com", "9811111111")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
}

func TestGuestUpgradeKeepsID(t *testing.T) {
	svc := setupCustomer(t)

	guest, err := svc.EnsureForCheckout("Ananya Verma", "ananya@example.com", "9811111111")
	require.NoError(t, err)

	resp, err := svc.Register(&RegisterRequest{
		Email: "ananya@example.com", Password: "secure1234", FirstName: "Ananya", LastName: "Verma",
	})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, resp.Customer.ID)
	assert.False(t, resp.Customer.IsGuest)

	// Guests cannot log in before upgrading
	c2, err := svc.EnsureForCheckout("Guest Two", "guest2@example.com", "")
	require.NoError(t, err)
	_, err = svc.Login(&LoginRequest{Email: c2.Email, Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := setupCustomer(t)

	resp, err := svc.Register(&RegisterRequest{
		Email: "priya@example.com", Password: "secure1234", FirstName: "Priya",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Customer.ID, refreshed.Customer.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(resp.AccessToken)
	assert.Error(t, err)
}

func TestChangePasswordAndProfile(t *testing.T) {
	svc := setupCustomer(t)

	resp, err := svc.Register(&RegisterRequest{
		Email: "priya@example.com", Password: "secure1234", FirstName: "Priya",
	})
	require.NoError(t, err)
	id := resp.Customer.ID

	assert.ErrorIs(t, svc.ChangePassword(id, "wrong", "newpass123"), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(id, "secure1234", "newpass123"))

	_, err = svc.Login(&LoginRequest{Email: "priya@example.com", Password: "newpass123"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(id, &UpdateProfileRequest{Phone: "9822222222"})
	require.NoError(t, err)
	_ = updated
	loaded, err := svc.GetProfile(id)
	require.NoError(t, err)
	assert.Equal(t, "9822222222", loaded.Phone)
}
