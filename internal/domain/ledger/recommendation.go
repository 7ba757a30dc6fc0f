package ledger

import (
	"time"

	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecommendationType tags which sister direction was offered
type RecommendationType string

const (
	RecommendationSisterDown RecommendationType = "SISTER_DOWN"
	RecommendationSisterUp   RecommendationType = "SISTER_UP"
)

// SisterSizeRecommendation records that a sister size was offered for an
// out-of-stock request. Rows are append-mostly: created once per
// alternatives lookup, mutated only by Accept, never deleted (retained for
// analytics). Concurrent lookups for the same product and size each write
// their own row; duplicates represent independent sessions.
type SisterSizeRecommendation struct {
	shared.BaseEntity
	ProductID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID          `gorm:"type:uuid;not null"`
	RequestedSize   string             `gorm:"type:varchar(20);not null"`
	RequestedUIC    string             `gorm:"column:requested_uic;type:varchar(50);not null"`
	RecommendedSize string             `gorm:"type:varchar(20);not null"`
	RecommendedUIC  string             `gorm:"column:recommended_uic;type:varchar(50);not null"`
	Type            RecommendationType `gorm:"column:recommendation_type;type:varchar(20);not null;index"`
	SessionID       string             `gorm:"type:varchar(100);index"`
	RegionCode      string             `gorm:"type:varchar(5);not null"`
	Accepted        bool               `gorm:"not null;default:false"`
	AcceptedAt      *time.Time
}

// TableName returns the table name for GORM
func (SisterSizeRecommendation) TableName() string {
	return "sister_size_recommendations"
}

// NewSisterSizeRecommendation creates a recommendation record
func NewSisterSizeRecommendation(
	productID, variantID uuid.UUID,
	requestedSize, requestedUIC, recommendedSize, recommendedUIC string,
	recType RecommendationType,
	sessionID, regionCode string,
) (*SisterSizeRecommendation, error) {
	if recType != RecommendationSisterDown && recType != RecommendationSisterUp {
		return nil, shared.NewDomainError("INVALID_RECOMMENDATION_TYPE", "Recommendation type must be SISTER_DOWN or SISTER_UP")
	}
	if requestedUIC == "" || recommendedUIC == "" {
		return nil, shared.ErrInvalidInput
	}

	return &SisterSizeRecommendation{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		VariantID:       variantID,
		RequestedSize:   requestedSize,
		RequestedUIC:    requestedUIC,
		RecommendedSize: recommendedSize,
		RecommendedUIC:  recommendedUIC,
		Type:            recType,
		SessionID:       sessionID,
		RegionCode:      regionCode,
	}, nil
}

// Accept marks the recommendation as used by the customer. A second accept
// simply re-stamps AcceptedAt; there is no once-only invariant.
func (r *SisterSizeRecommendation) Accept() {
	now := time.Now()
	r.Accepted = true
	r.AcceptedAt = &now
	r.UpdatedAt = now
}
