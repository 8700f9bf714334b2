// internal/domain/gateway/entity.go
package gateway

import "time"

// Credentials is a provider-specific credential map stored as JSON
type Credentials map[string]string

// Gateway is a configured payment gateway. At most one gateway is active at
// a time; activating one deactivates the rest.
type Gateway struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"not null;size:100;index" json:"name"`
	Provider    string      `gorm:"not null;size:50" json:"provider"` // razorpay, phonepe, pinelabs, custom
	IsActive    bool        `gorm:"default:false;index" json:"is_active"`
	Credentials Credentials `gorm:"serializer:json;type:text" json:"credentials"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName override
func (Gateway) TableName() string { return "payment_gateways" }
