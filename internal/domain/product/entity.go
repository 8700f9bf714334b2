// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a jewelry catalog item. Rating aggregates are
// denormalized onto the row and recomputed whenever a review changes.
type Product struct {
	ID          string  `gorm:"primaryKey;size:50" json:"id"`
	Name        string  `gorm:"not null;size:255;index" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `gorm:"default:0" json:"stock"`
	Category    string  `gorm:"size:100;index" json:"category,omitempty"`

	// Jewelry attributes
	Metal   string `gorm:"size:50" json:"metal,omitempty"`
	Carat   string `gorm:"size:20" json:"carat,omitempty"`
	Stones  string `gorm:"size:100" json:"stones,omitempty"`
	Polish  string `gorm:"size:50" json:"polish,omitempty"`
	Premium bool   `gorm:"default:false" json:"premium"`
	Tag     string `gorm:"size:50" json:"tag,omitempty"`
	Style   string `gorm:"size:50" json:"style,omitempty"`

	Image            string         `gorm:"not null;type:text" json:"image"`
	AdditionalImages []string       `gorm:"serializer:json;type:text" json:"additional_images"`
	AverageRating    *float64       `json:"average_rating"`
	TotalReviews     int            `gorm:"default:0" json:"total_reviews"`
	RatingBuckets    map[string]int `gorm:"serializer:json;type:text" json:"rating_distribution"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Review represents a customer product review
type Review struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ProductID        string    `gorm:"not null;size:50;index" json:"product_id"`
	CustomerName     string    `gorm:"not null;size:255" json:"customer_name"`
	Rating           int       `gorm:"not null" json:"rating"`
	Comment          string    `gorm:"type:text" json:"comment"`
	MediaURLs        []string  `gorm:"serializer:json;type:text" json:"media_urls"`
	HelpfulCount     int       `gorm:"default:0" json:"helpful_count"`
	VerifiedPurchase bool      `gorm:"default:false" json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName overrides
func (Product) TableName() string { return "products" }
func (Review) TableName() string  { return "product_reviews" }

// InStock reports whether the product can be ordered
func (p *Product) InStock() bool {
	return p.Stock > 0
}
