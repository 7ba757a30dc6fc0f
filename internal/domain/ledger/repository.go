package ledger

import (
	"context"

	"github.com/google/uuid"
)

// AcceptanceCount is one grouped row of recommendation outcomes
type AcceptanceCount struct {
	Type     RecommendationType
	Accepted bool
	Count    int64
}

// OutOfStockSize is a frequently requested size that had no stock
type OutOfStockSize struct {
	ProductID     uuid.UUID
	RequestedSize string
	Requests      int64
}

// RecommendationRepository persists sister-size recommendations
type RecommendationRepository interface {
	Save(ctx context.Context, rec *SisterSizeRecommendation) error
	FindByID(ctx context.Context, id uuid.UUID) (*SisterSizeRecommendation, error)
	CountByTypeAndAcceptance(ctx context.Context) ([]AcceptanceCount, error)
	TopRequestedSizes(ctx context.Context, limit int) ([]OutOfStockSize, error)
}

// FeedbackRepository persists brand fit feedback
type FeedbackRepository interface {
	Save(ctx context.Context, feedback *BrandFitFeedback) error
	FindByBrand(ctx context.Context, brandID uuid.UUID) ([]BrandFitFeedback, error)
}
