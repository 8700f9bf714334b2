// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/varahajewels/ecommerce-backend/internal/domain/coupon"
	"github.com/varahajewels/ecommerce-backend/internal/domain/customer"
	"github.com/varahajewels/ecommerce-backend/internal/domain/gateway"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/product"
	"github.com/varahajewels/ecommerce-backend/internal/domain/settings"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	// Dependency order: customers before orders (customer_id linkage)
	models := []interface{}{
		&customer.Customer{},
		&product.Product{},
		&product.Review{},
		&coupon.Coupon{},
		&order.Order{},
		&order.Return{},
		&gateway.Gateway{},
		&settings.StoreSettings{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes beyond the struct tags
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(email)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_returns_status ON order_returns(status)",
		"CREATE INDEX IF NOT EXISTS idx_customers_email_active ON customers(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		"CREATE INDEX IF NOT EXISTS idx_product_reviews_product ON product_reviews(product_id, created_at DESC)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("Failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("Database indexes ensured")
	return nil
}

// SeedInitialData inserts the store settings row and the admin account
func (m *Migration) SeedInitialData() error {
	if err := m.seedStoreSettings(); err != nil {
		return fmt.Errorf("failed to seed store settings: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}

func (m *Migration) seedStoreSettings() error {
	var existing settings.StoreSettings
	err := m.db.First(&existing, 1).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	row := settings.StoreSettings{ID: 1}
	if err := m.db.Create(&row).Error; err != nil {
		return err
	}
	m.logger.Info("Seeded store settings row")
	return nil
}

// seedAdminUser creates the admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
// Skipped silently when either is unset so production seeds are explicit.
func (m *Migration) seedAdminUser() error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		m.logger.Debug("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing customer.Customer
	err := m.db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := customer.Customer{
		Email:     adminEmail,
		Password:  string(hashedPassword),
		FirstName: "Admin",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	m.logger.WithField("email", adminEmail).Info("Seeded admin user")
	return nil
}
