package persistence

import (
	"context"

	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeedbackRepository implements ledger.FeedbackRepository using GORM
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new GormFeedbackRepository
func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// Save persists a feedback record
func (r *GormFeedbackRepository) Save(ctx context.Context, feedback *ledger.BrandFitFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// FindByBrand finds all feedback for a brand, newest first
func (r *GormFeedbackRepository) FindByBrand(ctx context.Context, brandID uuid.UUID) ([]ledger.BrandFitFeedback, error) {
	var feedback []ledger.BrandFitFeedback
	if err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}
