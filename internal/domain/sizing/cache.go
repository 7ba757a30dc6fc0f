package sizing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ResultCache stores computed sizing results keyed by lookup parameters.
// Implementations must degrade gracefully: a cache failure is a miss,
// never an error surfaced to the caller.
//
// Cache keys follow the pattern:
// - Conversions: sizing:conversion:{from}:{to}:{letter}
// - Sister lookups: sizing:sister:{uic}
type ResultCache interface {
	// Get unmarshals the cached value into dest and reports whether a
	// live entry was found.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores value under key for the given TTL. Errors are swallowed.
	Set(ctx context.Context, key string, value any, ttl time.Duration)

	// Invalidate removes all entries whose key starts with prefix.
	Invalidate(ctx context.Context, prefix string)

	// Close releases any resources held by the cache.
	Close() error
}

// CacheConfig holds TTLs for the two cached result families. Conversions
// are stable reference data and cache long; sister lookups sit upstream of
// stock-sensitive flows and cache short.
type CacheConfig struct {
	ConversionTTL time.Duration
	SisterTTL     time.Duration
}

// DefaultCacheConfig returns the default cache TTLs
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ConversionTTL: 24 * time.Hour,
		SisterTTL:     time.Hour,
	}
}

const (
	conversionPrefix = "sizing:conversion:"
	sisterPrefix     = "sizing:sister:"
)

// ConversionKey builds the cache key for a cross-region cup conversion.
func ConversionKey(fromRegion, toRegion, cupLetter string) string {
	return conversionPrefix + normalizeRegion(fromRegion) + ":" + normalizeRegion(toRegion) + ":" + strings.ToUpper(cupLetter)
}

// MatrixKey builds the cache key for a full cup matrix at one volume.
func MatrixKey(cupVolume int) string {
	return fmt.Sprintf("%smatrix:%d", conversionPrefix, cupVolume)
}

// SisterKey builds the cache key for a sister-size lookup by UIC.
func SisterKey(uic string) string {
	return sisterPrefix + uic
}

// SisterFamilyKey builds the cache key for a full sister family walk.
func SisterFamilyKey(uic, regionCode string) string {
	return sisterPrefix + "family:" + normalizeRegion(regionCode) + ":" + uic
}

// ConversionPrefix returns the conversion namespace for Invalidate calls.
func ConversionPrefix() string { return conversionPrefix }

// SisterPrefix returns the sister namespace for Invalidate calls.
func SisterPrefix() string { return sisterPrefix }
