// internal/domain/customer/entity.go
package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a storefront account. Guest checkouts create a
// customer row without a password so order history survives a later signup.
type Customer struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"uniqueIndex;not null;size:36" json:"uuid"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"size:255" json:"-"`
	FirstName   string         `gorm:"size:100" json:"first_name"`
	LastName    string         `gorm:"size:100" json:"last_name"`
	Phone       string         `gorm:"size:20" json:"phone"`
	IsGuest     bool           `gorm:"default:false" json:"is_guest"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsAdmin     bool           `gorm:"default:false" json:"is_admin"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate normalizes the email and assigns the public UUID
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// FullName returns the customer's full name
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasAccount reports whether the customer can log in
func (c *Customer) HasAccount() bool {
	return !c.IsGuest && c.Password != ""
}
