package sizing

import (
	"context"
	"strings"

	"github.com/lumiere/backend/internal/domain/sizing"
)

// CupConversionService exposes the region cup tables to the HTTP layer,
// with optional result caching for the conversion family.
type CupConversionService struct {
	tables   *sizing.TableSet
	cache    sizing.ResultCache
	cacheCfg sizing.CacheConfig
}

// NewCupConversionService creates a new CupConversionService
func NewCupConversionService(tables *sizing.TableSet) *CupConversionService {
	return &CupConversionService{
		tables:   tables,
		cacheCfg: sizing.DefaultCacheConfig(),
	}
}

// SetResultCache enables caching of conversion results (optional)
func (s *CupConversionService) SetResultCache(cache sizing.ResultCache, cfg sizing.CacheConfig) {
	s.cache = cache
	s.cacheCfg = cfg
}

// Convert translates a cup letter between two regions' vocabularies
func (s *CupConversionService) Convert(ctx context.Context, req ConvertCupRequest) (*sizing.Conversion, error) {
	key := sizing.ConversionKey(req.FromRegion, req.ToRegion, req.CupLetter)
	if s.cache != nil {
		var cached sizing.Conversion
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	conv, err := s.tables.Convert(req.FromRegion, req.ToRegion, req.CupLetter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, conv, s.cacheCfg.ConversionTTL)
	}
	return &conv, nil
}

// Progression lists a region's cup letters in volume order
func (s *CupConversionService) Progression(_ context.Context, regionCode string) (*ProgressionResponse, error) {
	letters, err := s.tables.Progression(regionCode)
	if err != nil {
		return nil, err
	}
	return &ProgressionResponse{
		RegionCode:  strings.ToUpper(strings.TrimSpace(regionCode)),
		Progression: letters,
	}, nil
}

// Info describes a cup letter's volume and neighbors within a region
func (s *CupConversionService) Info(_ context.Context, regionCode, cupLetter string) (*sizing.ProgressionInfo, error) {
	info, err := s.tables.Info(regionCode, cupLetter)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Matrix maps every region to its cup letter for one volume
func (s *CupConversionService) Matrix(ctx context.Context, cupVolume int) (*MatrixResponse, error) {
	key := sizing.MatrixKey(cupVolume)
	if s.cache != nil {
		var cached MatrixResponse
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	matrix, err := s.tables.Matrix(cupVolume)
	if err != nil {
		return nil, err
	}

	resp := &MatrixResponse{CupVolume: cupVolume, Matrix: matrix}
	if s.cache != nil {
		s.cache.Set(ctx, key, resp, s.cacheCfg.ConversionTTL)
	}
	return resp, nil
}

// Regions lists the supported region codes
func (s *CupConversionService) Regions(_ context.Context) []string {
	return s.tables.Regions()
}
