package sizing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lumiere/backend/internal/domain/catalog"
	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/lumiere/backend/internal/domain/sizing"
	"github.com/shopspring/decimal"
)

// Suggested adjustments need this many feedback records before they
// carry any confidence.
const minFeedbackSampleSize = 10

// BrandFitService applies brand fit profiles to customer sizes and
// keeps the fit feedback ledger.
type BrandFitService struct {
	brandRepo    catalog.BrandRepository
	feedbackRepo ledger.FeedbackRepository
	tables       *sizing.TableSet
}

// NewBrandFitService creates a new BrandFitService
func NewBrandFitService(
	brandRepo catalog.BrandRepository,
	feedbackRepo ledger.FeedbackRepository,
	tables *sizing.TableSet,
) *BrandFitService {
	return &BrandFitService{
		brandRepo:    brandRepo,
		feedbackRepo: feedbackRepo,
		tables:       tables,
	}
}

// Profile returns a brand's declared fit profile
func (s *BrandFitService) Profile(ctx context.Context, brandID uuid.UUID) (*BrandFitProfileResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return toBrandFitProfileResponse(brand), nil
}

// AllProfiles lists the fit profiles of every active brand
func (s *BrandFitService) AllProfiles(ctx context.Context) ([]BrandFitProfileResponse, error) {
	brands, err := s.brandRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]BrandFitProfileResponse, 0, len(brands))
	for i := range brands {
		profiles = append(profiles, *toBrandFitProfileResponse(&brands[i]))
	}
	return profiles, nil
}

// Adjust applies a brand's fit bias to a customer's normal size. Unlike
// sister sizing the band and cup shift in the same direction: the bias
// compensates for how the brand's garments run, it does not preserve
// cup volume. True-to-size brands short-circuit without parsing.
func (s *BrandFitService) Adjust(ctx context.Context, brandID uuid.UUID, req AdjustSizeRequest) (*AdjustmentResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if brand.FitType == catalog.FitTrueToSize {
		note := brand.FitNotes
		if note == "" {
			note = "True to size"
		}
		return &AdjustmentResponse{
			BrandID:         brand.ID,
			OriginalSize:    req.UserNormalSize,
			RecommendedSize: req.UserNormalSize,
			FitType:         catalog.FitTrueToSize,
			FitNote:         note,
			Confidence:      brand.FitConfidence,
		}, nil
	}

	parsed, err := sizing.ParseDisplaySize(s.tables, req.RegionCode, req.UserNormalSize)
	if err != nil {
		return nil, err
	}

	adjusted := sizing.SizeCode{
		BandCm:    parsed.Code.BandCm + brand.BandAdjustment*sizing.BandStepCm,
		CupVolume: parsed.Code.CupVolume + brand.CupAdjustment,
	}
	if adjusted.CupVolume < 1 {
		adjusted.CupVolume = 1
	}

	display, err := sizing.FormatDisplaySize(s.tables, req.RegionCode, adjusted)
	if err != nil {
		return nil, err
	}

	return &AdjustmentResponse{
		BrandID:         brand.ID,
		OriginalSize:    parsed.String(),
		RecommendedSize: display.String(),
		FitType:         brand.FitType,
		FitNote:         buildFitNote(brand, parsed.String(), display.String()),
		BandAdjustment:  brand.BandAdjustment,
		CupAdjustment:   brand.CupAdjustment,
		Confidence:      brand.FitConfidence,
	}, nil
}

// buildFitNote combines the brand's stored notes with a concrete
// size recommendation line
func buildFitNote(brand *catalog.Brand, originalSize, recommendedSize string) string {
	note := brand.FitNotes
	if originalSize == recommendedSize {
		return note
	}

	line := fmt.Sprintf("Normally wear %s? We recommend %s in this brand.", originalSize, recommendedSize)
	if brand.BandAdjustment != 0 {
		direction := "up"
		steps := brand.BandAdjustment
		if steps < 0 {
			direction = "down"
			steps = -steps
		}
		plural := ""
		if steps > 1 {
			plural = "s"
		}
		line += fmt.Sprintf(" (Band runs %d size%s %s)", steps, plural, direction)
	}

	if note == "" {
		return line
	}
	return note + "\n\n" + line
}

// SubmitFeedback stores a customer's fit report for a brand. The rating
// is validated before any record is created.
func (s *BrandFitService) SubmitFeedback(ctx context.Context, brandID uuid.UUID, req SubmitFeedbackRequest) (*FeedbackResponse, error) {
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return nil, err
	}

	feedback, err := ledger.NewBrandFitFeedback(brandID, req.ProductID, req.NormalSize, req.BoughtSize, req.FitRating, req.FitComment)
	if err != nil {
		return nil, err
	}

	if err := s.feedbackRepo.Save(ctx, feedback); err != nil {
		return nil, err
	}

	return &FeedbackResponse{
		ID:         feedback.ID,
		BrandID:    feedback.BrandID,
		ProductID:  feedback.ProductID,
		NormalSize: feedback.NormalSize,
		BoughtSize: feedback.BoughtSize,
		FitRating:  feedback.FitRating,
		FitComment: feedback.FitComment,
		CreatedAt:  feedback.CreatedAt,
	}, nil
}

// Stats aggregates a brand's feedback into totals, average rating and
// a per-rating distribution
func (s *BrandFitService) Stats(ctx context.Context, brandID uuid.UUID) (*BrandFitStatsResponse, error) {
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return nil, err
	}

	feedback, err := s.feedbackRepo.FindByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	resp := &BrandFitStatsResponse{
		BrandID:         brandID,
		TotalFeedback:   int64(len(feedback)),
		AverageRating:   decimal.Zero,
		FitDistribution: make(map[int]int64),
	}
	if len(feedback) == 0 {
		return resp, nil
	}

	sum := decimal.Zero
	for _, f := range feedback {
		sum = sum.Add(decimal.NewFromInt(int64(f.FitRating)))
		resp.FitDistribution[f.FitRating]++
	}
	resp.AverageRating = sum.Div(decimal.NewFromInt(resp.TotalFeedback)).Round(2)

	return resp, nil
}

// SuggestedAdjustment derives a fit bias from feedback history. Ratings
// of 1-2 mean customers sized down (the brand runs large), 4-5 that they
// sized up (runs small). Confidence grows with sample size and callers
// must not treat a low-confidence suggestion as authoritative.
func (s *BrandFitService) SuggestedAdjustment(ctx context.Context, brandID uuid.UUID) (*SuggestedAdjustmentResponse, error) {
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return nil, err
	}

	feedback, err := s.feedbackRepo.FindByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	n := int64(len(feedback))
	resp := &SuggestedAdjustmentResponse{
		BrandID:          brandID,
		SuggestedFitType: catalog.FitTrueToSize,
		Confidence:       decimal.Zero,
		SampleSize:       n,
	}
	if n < minFeedbackSampleSize {
		return resp, nil
	}

	sum := decimal.Zero
	for _, f := range feedback {
		sum = sum.Add(decimal.NewFromInt(int64(f.FitRating)))
	}
	avg := sum.Div(decimal.NewFromInt(n))

	switch {
	case avg.LessThan(decimal.NewFromFloat(2.5)):
		resp.SuggestedFitType = catalog.FitRunsLarge
		resp.SuggestedBandAdjustment = -1
	case avg.GreaterThan(decimal.NewFromFloat(3.5)):
		resp.SuggestedFitType = catalog.FitRunsSmall
		resp.SuggestedBandAdjustment = 1
	}

	confidence := decimal.NewFromInt(n).Div(decimal.NewFromInt(100))
	if confidence.GreaterThan(decimal.NewFromInt(1)) {
		confidence = decimal.NewFromInt(1)
	}
	resp.Confidence = confidence.Round(2)

	return resp, nil
}
