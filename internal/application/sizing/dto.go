package sizing

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiere/backend/internal/domain/catalog"
	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/lumiere/backend/internal/domain/sizing"
	"github.com/shopspring/decimal"
)

// SizeDetail describes one decoded size in API responses
type SizeDetail struct {
	UniversalCode string `json:"universal_code"`
	BandCm        int    `json:"band_cm"`
	CupVolume     int    `json:"cup_volume"`
}

// SisterLookupResponse carries a size and its two sister alternates.
// Either sister is nil when the step would leave the valid range.
type SisterLookupResponse struct {
	Original   SizeDetail  `json:"original"`
	SisterDown *SizeDetail `json:"sister_down"`
	SisterUp   *SizeDetail `json:"sister_up"`
}

// FamilyMember is one size in a sister family, rendered for a region
type FamilyMember struct {
	UniversalCode string `json:"universal_code"`
	BandCm        int    `json:"band_cm"`
	CupVolume     int    `json:"cup_volume"`
	DisplaySize   string `json:"display_size"`
	IsOriginal    bool   `json:"is_original"`
}

// SisterFamilyResponse lists every equivalent-volume size reachable from
// the original by repeated sister steps, ordered by ascending band.
type SisterFamilyResponse struct {
	UniversalCode string         `json:"universal_code"`
	RegionCode    string         `json:"region_code"`
	Family        []FamilyMember `json:"family"`
}

// AlternativeResponse is one sister alternate offered for an
// out-of-stock size
type AlternativeResponse struct {
	Type             ledger.RecommendationType `json:"type"`
	Size             string                    `json:"size"`
	UniversalCode    string                    `json:"universal_code"`
	Stock            int                       `json:"stock"`
	InStock          bool                      `json:"in_stock"`
	FitNote          string                    `json:"fit_note"`
	RecommendationID *uuid.UUID                `json:"recommendation_id,omitempty"`
}

// AlternativesResponse answers "what can I offer instead of this size"
type AlternativesResponse struct {
	ProductID     uuid.UUID             `json:"product_id"`
	RequestedSize string                `json:"requested_size"`
	RequestedUIC  string                `json:"requested_uic"`
	IsAvailable   bool                  `json:"is_available"`
	Stock         int                   `json:"stock"`
	Alternatives  []AlternativeResponse `json:"alternatives"`
}

// RecommendationResponse represents a persisted recommendation in
// API responses
type RecommendationResponse struct {
	ID              uuid.UUID                 `json:"id"`
	ProductID       uuid.UUID                 `json:"product_id"`
	VariantID       uuid.UUID                 `json:"variant_id"`
	RequestedSize   string                    `json:"requested_size"`
	RequestedUIC    string                    `json:"requested_uic"`
	RecommendedSize string                    `json:"recommended_size"`
	RecommendedUIC  string                    `json:"recommended_uic"`
	Type            ledger.RecommendationType `json:"type"`
	SessionID       string                    `json:"session_id,omitempty"`
	RegionCode      string                    `json:"region_code,omitempty"`
	Accepted        bool                      `json:"accepted"`
	AcceptedAt      *time.Time                `json:"accepted_at"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// TypeAcceptanceStats aggregates recommendation outcomes for one
// recommendation type
type TypeAcceptanceStats struct {
	Type           ledger.RecommendationType `json:"type"`
	Total          int64                     `json:"total"`
	Accepted       int64                     `json:"accepted"`
	AcceptanceRate decimal.Decimal           `json:"acceptance_rate"`
}

// AcceptanceStatsResponse groups recommendation outcomes by type
type AcceptanceStatsResponse struct {
	Total  int64                 `json:"total"`
	ByType []TypeAcceptanceStats `json:"by_type"`
}

// OutOfStockSizeResponse is one frequently requested size that had
// no stock when customers asked for it
type OutOfStockSizeResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	RequestedSize string    `json:"requested_size"`
	Requests      int64     `json:"requests"`
}

// ConvertCupRequest asks for a cup letter translation between regions
type ConvertCupRequest struct {
	FromRegion string `json:"from_region" binding:"required"`
	ToRegion   string `json:"to_region" binding:"required"`
	CupLetter  string `json:"cup_letter" binding:"required"`
}

// ProgressionResponse lists a region's cup letters in volume order
type ProgressionResponse struct {
	RegionCode  string   `json:"region_code"`
	Progression []string `json:"progression"`
}

// MatrixResponse maps each region to its letter for one cup volume
type MatrixResponse struct {
	CupVolume int               `json:"cup_volume"`
	Matrix    map[string]string `json:"matrix"`
}

// BrandFitProfileResponse exposes a brand's declared fit bias
type BrandFitProfileResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	FitType        catalog.FitType `json:"fit_type"`
	BandAdjustment int             `json:"band_adjustment"`
	CupAdjustment  int             `json:"cup_adjustment"`
	FitNotes       string          `json:"fit_notes"`
	FitConfidence  float64         `json:"fit_confidence"`
}

// AdjustSizeRequest asks for a brand-specific size recommendation
type AdjustSizeRequest struct {
	UserNormalSize string `json:"user_normal_size" binding:"required"`
	RegionCode     string `json:"region_code" binding:"required"`
}

// AdjustmentResponse is a brand-specific size recommendation
type AdjustmentResponse struct {
	BrandID         uuid.UUID       `json:"brand_id"`
	OriginalSize    string          `json:"original_size"`
	RecommendedSize string          `json:"recommended_size"`
	FitType         catalog.FitType `json:"fit_type"`
	FitNote         string          `json:"fit_note"`
	BandAdjustment  int             `json:"band_adjustment"`
	CupAdjustment   int             `json:"cup_adjustment"`
	Confidence      float64         `json:"confidence"`
}

// SubmitFeedbackRequest reports how a purchased size fit
type SubmitFeedbackRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	NormalSize string    `json:"normal_size" binding:"required"`
	BoughtSize string    `json:"bought_size" binding:"required"`
	FitRating  int       `json:"fit_rating" binding:"required"`
	FitComment string    `json:"fit_comment"`
}

// FeedbackResponse represents a stored feedback record
type FeedbackResponse struct {
	ID         uuid.UUID `json:"id"`
	BrandID    uuid.UUID `json:"brand_id"`
	ProductID  uuid.UUID `json:"product_id"`
	NormalSize string    `json:"normal_size"`
	BoughtSize string    `json:"bought_size"`
	FitRating  int       `json:"fit_rating"`
	FitComment string    `json:"fit_comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BrandFitStatsResponse aggregates feedback for one brand
type BrandFitStatsResponse struct {
	BrandID         uuid.UUID       `json:"brand_id"`
	TotalFeedback   int64           `json:"total_feedback"`
	AverageRating   decimal.Decimal `json:"average_rating"`
	FitDistribution map[int]int64   `json:"fit_distribution"`
}

// SuggestedAdjustmentResponse derives a fit bias from feedback history.
// Low-confidence suggestions must not be treated as authoritative.
type SuggestedAdjustmentResponse struct {
	BrandID                 uuid.UUID       `json:"brand_id"`
	SuggestedFitType        catalog.FitType `json:"suggested_fit_type"`
	SuggestedBandAdjustment int             `json:"suggested_band_adjustment"`
	Confidence              decimal.Decimal `json:"confidence"`
	SampleSize              int64           `json:"sample_size"`
}

func toSizeDetail(code sizing.SizeCode) SizeDetail {
	return SizeDetail{
		UniversalCode: code.MustEncode(),
		BandCm:        code.BandCm,
		CupVolume:     code.CupVolume,
	}
}

func toRecommendationResponse(rec *ledger.SisterSizeRecommendation) *RecommendationResponse {
	return &RecommendationResponse{
		ID:              rec.ID,
		ProductID:       rec.ProductID,
		VariantID:       rec.VariantID,
		RequestedSize:   rec.RequestedSize,
		RequestedUIC:    rec.RequestedUIC,
		RecommendedSize: rec.RecommendedSize,
		RecommendedUIC:  rec.RecommendedUIC,
		Type:            rec.Type,
		SessionID:       rec.SessionID,
		RegionCode:      rec.RegionCode,
		Accepted:        rec.Accepted,
		AcceptedAt:      rec.AcceptedAt,
		CreatedAt:       rec.CreatedAt,
	}
}

func toBrandFitProfileResponse(b *catalog.Brand) *BrandFitProfileResponse {
	return &BrandFitProfileResponse{
		ID:             b.ID,
		Name:           b.Name,
		Slug:           b.Slug,
		FitType:        b.FitType,
		BandAdjustment: b.BandAdjustment,
		CupAdjustment:  b.CupAdjustment,
		FitNotes:       b.FitNotes,
		FitConfidence:  b.FitConfidence,
	}
}
