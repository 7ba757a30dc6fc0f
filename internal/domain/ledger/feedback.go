package ledger

import (
	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrInvalidRating rejects fit ratings outside the 1-5 scale
var ErrInvalidRating = shared.NewDomainError("INVALID_RATING", "Fit rating must be between 1 and 5")

// Fit rating scale bounds. 1 means the garment ran large (the customer
// sized down), 3 is a perfect fit, 5 means it ran small (sized up).
const (
	MinFitRating = 1
	MaxFitRating = 5
)

// BrandFitFeedback is a customer's report of the size they normally wear
// versus the size they bought from a brand. Immutable once created; feeds
// brand fit statistics and suggested adjustments.
type BrandFitFeedback struct {
	shared.BaseEntity
	BrandID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	NormalSize string    `gorm:"type:varchar(20);not null"`
	BoughtSize string    `gorm:"type:varchar(20);not null"`
	FitRating  int       `gorm:"not null"`
	FitComment string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BrandFitFeedback) TableName() string {
	return "brand_fit_feedback"
}

// NewBrandFitFeedback validates and creates a feedback record
func NewBrandFitFeedback(brandID, productID uuid.UUID, normalSize, boughtSize string, fitRating int, fitComment string) (*BrandFitFeedback, error) {
	if fitRating < MinFitRating || fitRating > MaxFitRating {
		return nil, ErrInvalidRating
	}
	if normalSize == "" || boughtSize == "" {
		return nil, shared.ErrInvalidInput
	}

	return &BrandFitFeedback{
		BaseEntity: shared.NewBaseEntity(),
		BrandID:    brandID,
		ProductID:  productID,
		NormalSize: normalSize,
		BoughtSize: boughtSize,
		FitRating:  fitRating,
		FitComment: fitComment,
	}, nil
}
