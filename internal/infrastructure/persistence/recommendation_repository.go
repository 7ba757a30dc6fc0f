package persistence

import (
	"context"
	"errors"

	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecommendationRepository implements ledger.RecommendationRepository using GORM
type GormRecommendationRepository struct {
	db *gorm.DB
}

// NewGormRecommendationRepository creates a new GormRecommendationRepository
func NewGormRecommendationRepository(db *gorm.DB) *GormRecommendationRepository {
	return &GormRecommendationRepository{db: db}
}

// Save persists a recommendation (insert or update)
func (r *GormRecommendationRepository) Save(ctx context.Context, rec *ledger.SisterSizeRecommendation) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// FindByID finds a recommendation by its ID
func (r *GormRecommendationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SisterSizeRecommendation, error) {
	var rec ledger.SisterSizeRecommendation
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// CountByTypeAndAcceptance groups recommendation rows by type and acceptance
func (r *GormRecommendationRepository) CountByTypeAndAcceptance(ctx context.Context) ([]ledger.AcceptanceCount, error) {
	var counts []ledger.AcceptanceCount
	if err := r.db.WithContext(ctx).
		Model(&ledger.SisterSizeRecommendation{}).
		Select("recommendation_type AS type, accepted, COUNT(*) AS count").
		Group("recommendation_type, accepted").
		Order("recommendation_type, accepted").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// TopRequestedSizes returns the most frequently recommended-against sizes,
// i.e. the sizes customers most often asked for while they were out of stock
func (r *GormRecommendationRepository) TopRequestedSizes(ctx context.Context, limit int) ([]ledger.OutOfStockSize, error) {
	if limit <= 0 {
		limit = 20
	}
	var sizes []ledger.OutOfStockSize
	if err := r.db.WithContext(ctx).
		Model(&ledger.SisterSizeRecommendation{}).
		Select("product_id, requested_size, COUNT(*) AS requests").
		Group("product_id, requested_size").
		Order("requests DESC").
		Limit(limit).
		Scan(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}
