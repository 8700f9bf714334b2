// internal/domain/gateway/service.go
package gateway

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const mask = "********"

var (
	// ErrGatewayNotFound is returned when no gateway matches the id
	ErrGatewayNotFound = errors.New("gateway not found")
	// ErrNoActiveGateway is returned when payment is attempted without one
	ErrNoActiveGateway = errors.New("no active payment gateway configured")
)

// Service manages the payment gateway registry
type Service struct {
	db *gorm.DB
}

// NewService creates a gateway service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateRequest registers a new gateway
type CreateRequest struct {
	Name        string      `json:"name" binding:"required"`
	Provider    string      `json:"provider" binding:"required"`
	Credentials Credentials `json:"credentials" binding:"required"`
	IsActive    bool        `json:"is_active"`
}

// UpdateRequest toggles activation and/or rotates credentials
type UpdateRequest struct {
	IsActive    bool        `json:"is_active"`
	Credentials Credentials `json:"credentials"`
}

// Create registers a gateway. When the new gateway is active, every other
// gateway is deactivated in the same transaction.
func (s *Service) Create(req *CreateRequest) (*Gateway, error) {
	g := &Gateway{
		Name:        req.Name,
		Provider:    strings.ToLower(req.Provider),
		IsActive:    req.IsActive,
		Credentials: req.Credentials,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsActive {
			if err := tx.Model(&Gateway{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(g).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}
	return g, nil
}

// List returns all gateways with sensitive credential values masked
func (s *Service) List() ([]Gateway, error) {
	var gateways []Gateway
	if err := s.db.Order("id").Find(&gateways).Error; err != nil {
		return nil, fmt.Errorf("failed to list gateways: %w", err)
	}
	for i := range gateways {
		gateways[i].Credentials = maskCredentials(gateways[i].Credentials)
	}
	return gateways, nil
}

// GetActive returns the active gateway with unmasked credentials, for use by
// the payment flow itself.
func (s *Service) GetActive() (*Gateway, error) {
	var g Gateway
	err := s.db.Where("is_active = ?", true).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveGateway
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active gateway: %w", err)
	}
	return &g, nil
}

// Update toggles activation and rotates credentials. Masked values coming
// back from the admin UI keep their stored originals, so toggling the active
// flag can never corrupt stored secrets.
func (s *Service) Update(id uint, req *UpdateRequest) (*Gateway, error) {
	var g Gateway
	err := s.db.First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGatewayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsActive && !g.IsActive {
			if err := tx.Model(&Gateway{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		g.IsActive = req.IsActive

		if req.Credentials != nil {
			g.Credentials = mergeCredentials(g.Credentials, req.Credentials)
		}
		return tx.Save(&g).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update gateway: %w", err)
	}
	return &g, nil
}

// Delete removes a gateway from the registry
func (s *Service) Delete(id uint) error {
	result := s.db.Delete(&Gateway{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete gateway: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGatewayNotFound
	}
	return nil
}

// maskCredentials replaces sensitive values before they leave the service
func maskCredentials(creds Credentials) Credentials {
	masked := make(Credentials, len(creds))
	for key, value := range creds {
		if isSensitiveKey(key) && value != "" {
			masked[key] = mask
		} else {
			masked[key] = value
		}
	}
	return masked
}

// mergeCredentials applies incoming values over existing ones, keeping the
// stored original wherever the incoming value is still masked.
func mergeCredentials(existing, incoming Credentials) Credentials {
	merged := make(Credentials, len(existing)+len(incoming))
	for key, value := range existing {
		merged[key] = value
	}
	for key, value := range incoming {
		if strings.Contains(value, mask) {
			continue
		}
		merged[key] = value
	}
	return merged
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "secret") || strings.Contains(k, "password") || strings.Contains(k, "token")
}
