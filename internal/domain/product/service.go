// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned for lookups of a missing product
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidRating is returned when a review rating is outside 1..5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Service handles the jewelry catalog and its reviews
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// ListRequest represents catalog query parameters
type ListRequest struct {
	Category string `form:"category"`
	Metal    string `form:"metal"`
	Style    string `form:"style"`
	Tag      string `form:"tag"`
	Sort     string `form:"sort"`
	Limit    int    `form:"limit"`
}

// List returns catalog items with optional filters and sorting
func (s *Service) List(req *ListRequest) ([]Product, error) {
	query := s.db.Model(&Product{})

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Metal != "" {
		query = query.Where("metal = ?", req.Metal)
	}
	if req.Style != "" {
		query = query.Where("style = ?", req.Style)
	}
	if req.Tag != "" {
		query = query.Where("tag = ?", req.Tag)
	}

	switch req.Sort {
	case "newest":
		query = query.Order("created_at DESC")
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "rating":
		query = query.Order("average_rating DESC")
	}

	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get fetches a single product by ID
func (s *Service) Get(id string) (*Product, error) {
	var p Product
	if err := s.db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return &p, nil
}

// Create inserts a catalog item, generating an ID when none is given
func (s *Service) Create(p *Product) (*Product, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.RatingBuckets == nil {
		p.RatingBuckets = map[string]int{}
	}
	if err := s.db.Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// Update replaces the editable fields of a product
func (s *Service) Update(id string, updated *Product) (*Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updated.ID = p.ID
	updated.AverageRating = p.AverageRating
	updated.TotalReviews = p.TotalReviews
	updated.RatingBuckets = p.RatingBuckets
	updated.CreatedAt = p.CreatedAt
	if err := s.db.Save(updated).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

// Delete removes a product from the catalog
func (s *Service) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustStock changes the available stock by delta, clamped at zero
func (s *Service) AdjustStock(id string, delta int) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	stock := p.Stock + delta
	if stock < 0 {
		stock = 0
	}
	if err := s.db.Model(p).Update("stock", stock).Error; err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	return nil
}

// CreateReviewRequest carries a new product review
type CreateReviewRequest struct {
	ProductID    string   `json:"product_id" binding:"required"`
	CustomerName string   `json:"customer_name" binding:"required"`
	Rating       int      `json:"rating" binding:"required"`
	Comment      string   `json:"comment"`
	MediaURLs    []string `json:"media_urls"`
}

// AddReview stores a review and recomputes the product's rating aggregates
func (s *Service) AddReview(req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.Get(req.ProductID); err != nil {
		return nil, err
	}

	review := &Review{
		ProductID:    req.ProductID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Rating:       req.Rating,
		Comment:      req.Comment,
		MediaURLs:    req.MediaURLs,
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.recomputeRating(req.ProductID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": req.ProductID,
			"error":      err.Error(),
		}).Warn("Failed to recompute product rating")
	}

	return review, nil
}

// ListReviews returns all reviews for a product, newest first
func (s *Service) ListReviews(productID string) ([]Review, error) {
	var reviews []Review
	if err := s.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// MarkReviewHelpful increments the helpful counter
func (s *Service) MarkReviewHelpful(reviewID uint) error {
	result := s.db.Model(&Review{}).Where("id = ?", reviewID).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to mark review helpful: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("review not found")
	}
	return nil
}

// DeleteReview removes a review and recomputes aggregates
func (s *Service) DeleteReview(reviewID uint) error {
	var review Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("review not found")
		}
		return fmt.Errorf("failed to fetch review: %w", err)
	}

	if err := s.db.Delete(&review).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return s.recomputeRating(review.ProductID)
}

func (s *Service) recomputeRating(productID string) error {
	var reviews []Review
	if err := s.db.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	p, err := s.Get(productID)
	if err != nil {
		return err
	}

	if len(reviews) == 0 {
		p.AverageRating = nil
		p.TotalReviews = 0
		p.RatingBuckets = map[string]int{}
	} else {
		total := 0
		buckets := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
		for _, r := range reviews {
			total += r.Rating
			buckets[fmt.Sprintf("%d", r.Rating)]++
		}
		avg := float64(total) / float64(len(reviews))
		// One decimal place, as the storefront displays it
		avg = float64(int(avg*10+0.5)) / 10
		p.AverageRating = &avg
		p.TotalReviews = len(reviews)
		p.RatingBuckets = buckets
	}

	if err := s.db.Save(p).Error; err != nil {
		return fmt.Errorf("failed to update rating aggregates: %w", err)
	}
	return nil
}
