package sizing

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lumiere/backend/internal/domain/catalog"
	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/lumiere/backend/internal/domain/sizing"
	"github.com/shopspring/decimal"
)

// Fit notes attached to sister alternates. A sister down trades band
// room for cup depth, a sister up the other way around.
const (
	sisterDownNote = "Same cup volume with a snugger band. Fits closer around the ribcage."
	sisterUpNote   = "Same cup volume with a roomier band. Fits looser around the ribcage."
)

// SisterSizeService answers sister-size lookups and inventory-aware
// alternative searches, and keeps the recommendation ledger.
type SisterSizeService struct {
	variantRepo catalog.VariantRepository
	recRepo     ledger.RecommendationRepository
	tables      *sizing.TableSet
	cache       sizing.ResultCache
	cacheCfg    sizing.CacheConfig
}

// NewSisterSizeService creates a new SisterSizeService
func NewSisterSizeService(
	variantRepo catalog.VariantRepository,
	recRepo ledger.RecommendationRepository,
	tables *sizing.TableSet,
) *SisterSizeService {
	return &SisterSizeService{
		variantRepo: variantRepo,
		recRepo:     recRepo,
		tables:      tables,
		cacheCfg:    sizing.DefaultCacheConfig(),
	}
}

// SetResultCache enables caching of sister lookups (optional)
func (s *SisterSizeService) SetResultCache(cache sizing.ResultCache, cfg sizing.CacheConfig) {
	s.cache = cache
	s.cacheCfg = cfg
}

// SisterSizes decodes a UIC and returns its two sister alternates
func (s *SisterSizeService) SisterSizes(ctx context.Context, uic string) (*SisterLookupResponse, error) {
	if s.cache != nil {
		var cached SisterLookupResponse
		if s.cache.Get(ctx, sizing.SisterKey(uic), &cached) {
			return &cached, nil
		}
	}

	code, err := sizing.DecodeUIC(uic)
	if err != nil {
		return nil, err
	}

	resp := &SisterLookupResponse{Original: toSizeDetail(code)}
	pair := code.Sisters()
	if pair.Down != nil {
		detail := toSizeDetail(*pair.Down)
		resp.SisterDown = &detail
	}
	if pair.Up != nil {
		detail := toSizeDetail(*pair.Up)
		resp.SisterUp = &detail
	}

	if s.cache != nil {
		s.cache.Set(ctx, sizing.SisterKey(uic), resp, s.cacheCfg.SisterTTL)
	}
	return resp, nil
}

// SisterFamily walks the sister chain in both directions and renders
// every reachable size in the region's notation, ordered by ascending
// band. The walk stops where the region's progression runs out.
func (s *SisterSizeService) SisterFamily(ctx context.Context, uic, regionCode string) (*SisterFamilyResponse, error) {
	if s.cache != nil {
		var cached SisterFamilyResponse
		if s.cache.Get(ctx, sizing.SisterFamilyKey(uic, regionCode), &cached) {
			return &cached, nil
		}
	}

	code, err := sizing.DecodeUIC(uic)
	if err != nil {
		return nil, err
	}
	if !s.tables.Supports(regionCode) {
		return nil, sizing.ErrUnsupportedRegion
	}

	var family []FamilyMember

	appendMember := func(c sizing.SizeCode, original bool) bool {
		display, err := sizing.FormatDisplaySize(s.tables, regionCode, c)
		if err != nil {
			return false
		}
		family = append(family, FamilyMember{
			UniversalCode: c.MustEncode(),
			BandCm:        c.BandCm,
			CupVolume:     c.CupVolume,
			DisplaySize:   display.String(),
			IsOriginal:    original,
		})
		return true
	}

	appendMember(code, true)
	for down := code; ; {
		next, err := down.SisterDown()
		if err != nil || !appendMember(next, false) {
			break
		}
		down = next
	}
	for up := code; ; {
		next, err := up.SisterUp()
		if err != nil || !appendMember(next, false) {
			break
		}
		up = next
	}

	sort.Slice(family, func(i, j int) bool {
		return family[i].BandCm < family[j].BandCm
	})

	resp := &SisterFamilyResponse{
		UniversalCode: uic,
		RegionCode:    regionCode,
		Family:        family,
	}
	if s.cache != nil {
		s.cache.Set(ctx, sizing.SisterFamilyKey(uic, regionCode), resp, s.cacheCfg.SisterTTL)
	}
	return resp, nil
}

// FindAlternatives answers "what can I offer instead of this size".
// When the requested size is in stock no alternates are computed. When
// it is out of stock both sisters are matched against the product's
// variants; in-stock alternates rank first (down before up on ties) and
// zero-stock alternates are still reported for transparency. Persisted
// recommendation rows capture the lookup context when at least one
// in-stock alternate exists.
func (s *SisterSizeService) FindAlternatives(ctx context.Context, productID uuid.UUID, requestedSize, regionCode, sessionID string) (*AlternativesResponse, error) {
	variant, err := s.variantRepo.FindByProductAndDisplaySize(ctx, productID, requestedSize)
	if err != nil {
		return nil, err
	}

	code, err := sizing.DecodeUIC(variant.BaseSizeUIC)
	if err != nil {
		return nil, fmt.Errorf("variant %s carries an unreadable size code %q: %w", variant.ID, variant.BaseSizeUIC, err)
	}

	resp := &AlternativesResponse{
		ProductID:     productID,
		RequestedSize: variant.DisplaySize,
		RequestedUIC:  variant.BaseSizeUIC,
		IsAvailable:   variant.InStock(),
		Stock:         variant.Stock,
		Alternatives:  []AlternativeResponse{},
	}
	if resp.IsAvailable {
		return resp, nil
	}

	pair := code.Sisters()
	candidates := make([]AlternativeResponse, 0, 2)
	for _, side := range []struct {
		code    *sizing.SizeCode
		recType ledger.RecommendationType
		note    string
	}{
		{pair.Down, ledger.RecommendationSisterDown, sisterDownNote},
		{pair.Up, ledger.RecommendationSisterUp, sisterUpNote},
	} {
		if side.code == nil {
			continue
		}
		sisterUIC := side.code.MustEncode()
		matches, err := s.variantRepo.FindByProductAndUIC(ctx, productID, sisterUIC)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			continue
		}
		// Matches are ordered by stock descending; the best-stocked
		// variant represents the size.
		best := matches[0]
		candidates = append(candidates, AlternativeResponse{
			Type:          side.recType,
			Size:          best.DisplaySize,
			UniversalCode: sisterUIC,
			Stock:         best.Stock,
			InStock:       best.InStock(),
			FitNote:       side.note,
		})
	}

	// In-stock before out-of-stock; the down/up insertion order breaks ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].InStock && !candidates[j].InStock
	})

	anyInStock := false
	for _, c := range candidates {
		if c.InStock {
			anyInStock = true
			break
		}
	}

	if anyInStock {
		for i := range candidates {
			rec, err := ledger.NewSisterSizeRecommendation(
				productID, variant.ID,
				variant.DisplaySize, variant.BaseSizeUIC,
				candidates[i].Size, candidates[i].UniversalCode,
				candidates[i].Type, sessionID, regionCode,
			)
			if err != nil {
				return nil, err
			}
			if err := s.recRepo.Save(ctx, rec); err != nil {
				return nil, err
			}
			id := rec.ID
			candidates[i].RecommendationID = &id
		}
	}

	resp.Alternatives = candidates
	return resp, nil
}

// AcceptRecommendation marks a recommendation as used by the customer
func (s *SisterSizeService) AcceptRecommendation(ctx context.Context, id uuid.UUID) (*RecommendationResponse, error) {
	rec, err := s.recRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Accept()
	if err := s.recRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	return toRecommendationResponse(rec), nil
}

// AcceptanceStats groups recommendation outcomes by type for
// dashboard consumption
func (s *SisterSizeService) AcceptanceStats(ctx context.Context) (*AcceptanceStatsResponse, error) {
	counts, err := s.recRepo.CountByTypeAndAcceptance(ctx)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		total    int64
		accepted int64
	}
	buckets := make(map[ledger.RecommendationType]*bucket)
	order := make([]ledger.RecommendationType, 0, 2)
	for _, c := range counts {
		b, ok := buckets[c.Type]
		if !ok {
			b = &bucket{}
			buckets[c.Type] = b
			order = append(order, c.Type)
		}
		b.total += c.Count
		if c.Accepted {
			b.accepted += c.Count
		}
	}

	resp := &AcceptanceStatsResponse{ByType: make([]TypeAcceptanceStats, 0, len(order))}
	for _, recType := range order {
		b := buckets[recType]
		rate := decimal.Zero
		if b.total > 0 {
			rate = decimal.NewFromInt(b.accepted).Div(decimal.NewFromInt(b.total)).Round(4)
		}
		resp.Total += b.total
		resp.ByType = append(resp.ByType, TypeAcceptanceStats{
			Type:           recType,
			Total:          b.total,
			Accepted:       b.accepted,
			AcceptanceRate: rate,
		})
	}
	return resp, nil
}

// TopOutOfStock reports the most requested sizes that had no stock
func (s *SisterSizeService) TopOutOfStock(ctx context.Context, limit int) ([]OutOfStockSizeResponse, error) {
	sizes, err := s.recRepo.TopRequestedSizes(ctx, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]OutOfStockSizeResponse, 0, len(sizes))
	for _, row := range sizes {
		resp = append(resp, OutOfStockSizeResponse{
			ProductID:     row.ProductID,
			RequestedSize: row.RequestedSize,
			Requests:      row.Requests,
		})
	}
	return resp, nil
}
