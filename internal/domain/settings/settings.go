// internal/domain/settings/settings.go
package settings

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// StoreSettings is the singleton store configuration row
type StoreSettings struct {
	ID                    uint    `gorm:"primaryKey" json:"id"`
	StoreName             string  `gorm:"size:100;default:'Varaha Jewels'" json:"store_name"`
	SupportEmail          string  `gorm:"size:255" json:"support_email"`
	CurrencySymbol        string  `gorm:"size:5;default:'₹'" json:"currency_symbol"`
	GSTIN                 string  `gorm:"size:20" json:"gstin"`
	DeliveryFreeThreshold float64 `gorm:"default:1000" json:"delivery_free_threshold"`
	IsMaintenanceMode     bool    `gorm:"default:false" json:"is_maintenance_mode"`
}

// TableName override
func (StoreSettings) TableName() string { return "store_settings" }

// Service reads and writes the singleton settings row
type Service struct {
	db *gorm.DB
}

// NewService creates a settings service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the settings row, creating defaults on first access
func (s *Service) Get() (*StoreSettings, error) {
	var settings StoreSettings
	err := s.db.First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = StoreSettings{
			ID:             1,
			StoreName:      "Varaha Jewels",
			SupportEmail:   "support@varahajewels.com",
			CurrencySymbol: "₹",
		}
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("failed to seed store settings: %w", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}
	return &settings, nil
}

// Update persists changes to the settings row
func (s *Service) Update(updated *StoreSettings) (*StoreSettings, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}
	updated.ID = current.ID
	if err := s.db.Save(updated).Error; err != nil {
		return nil, fmt.Errorf("failed to update store settings: %w", err)
	}
	return updated, nil
}

// GSTINOrDefault returns the registered GSTIN, or "URP" (unregistered
// person) when none is configured, per the GSTR-1 filing convention.
func (s *Service) GSTINOrDefault() string {
	settings, err := s.Get()
	if err != nil || settings.GSTIN == "" {
		return "URP"
	}
	return settings.GSTIN
}
