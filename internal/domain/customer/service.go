// internal/domain/customer/service.go
package customer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/pkg/auth"
)

var (
	// ErrEmailTaken is returned when registering with an email that already
	// has a password-protected account
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials is returned on any login failure
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrCustomerNotFound is returned for lookups of missing customers
	ErrCustomerNotFound = errors.New("customer not found")
)

// Service handles customer accounts and guest checkout records
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	logger          *logrus.Logger
}

// NewService creates a new customer service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		logger:          logger,
	}
}

// RegisterRequest represents customer signup data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// LoginRequest represents customer login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	Customer     *Customer `json:"customer"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
}

// Register creates a new customer account. A prior guest record with the
// same email is upgraded in place so existing orders stay linked.
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var c Customer
	err = s.db.Where("email = ?", email).First(&c).Error
	switch {
	case err == nil:
		if c.HasAccount() {
			return nil, ErrEmailTaken
		}
		// Upgrade the guest record
		c.Password = hashedPassword
		c.FirstName = req.FirstName
		c.LastName = req.LastName
		if req.Phone != "" {
			c.Phone = req.Phone
		}
		c.IsGuest = false
		if err := s.db.Save(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to upgrade guest account: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		c = Customer{
			Email:     email,
			Password:  hashedPassword,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			IsActive:  true,
		}
		if err := s.db.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": c.ID,
		"email":       c.Email,
	}).Info("Customer registered")

	return s.issueTokens(&c)
}

// Login authenticates a customer
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var c Customer
	if err := s.db.Where("email = ? AND is_active = ?", email, true).First(&c).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if !c.HasAccount() {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwordManager.VerifyPassword(req.Password, c.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	c.LastLoginAt = &now
	s.db.Model(&c).Update("last_login_at", now)

	return s.issueTokens(&c)
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var c Customer
	if err := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&c).Error; err != nil {
		return nil, ErrCustomerNotFound
	}

	return s.issueTokens(&c)
}

// GetProfile fetches a customer by ID
func (s *Service) GetProfile(customerID uint) (*Customer, error) {
	var c Customer
	if err := s.db.Where("id = ? AND is_active = ?", customerID, true).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	c.Password = ""
	return &c, nil
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UpdateProfile updates the customer's editable fields
func (s *Service) UpdateProfile(customerID uint, req *UpdateProfileRequest) (*Customer, error) {
	c, err := s.GetProfile(customerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) > 0 {
		if err := s.db.Model(c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return c, nil
}

// ChangePassword changes the password after verifying the current one
func (s *Service) ChangePassword(customerID uint, currentPassword, newPassword string) error {
	var c Customer
	if err := s.db.Where("id = ? AND is_active = ?", customerID, true).First(&c).Error; err != nil {
		return ErrCustomerNotFound
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, c.Password); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.Model(&c).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// EnsureForCheckout finds or creates the customer record for an order.
// Guest checkouts get a passwordless row so a later signup inherits their
// order history.
func (s *Service) EnsureForCheckout(name, email, phone string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	var c Customer
	err := s.db.Where("email = ?", email).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	firstName, lastName := splitName(name)
	c = Customer{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		IsGuest:   true,
		IsActive:  true,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create guest customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": c.ID,
		"email":       c.Email,
	}).Info("Guest customer created")

	return &c, nil
}

func (s *Service) issueTokens(c *Customer) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(c.ID, c.Email, c.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(c.ID, c.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	c.Password = ""
	return &AuthResponse{
		Customer:     c,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
