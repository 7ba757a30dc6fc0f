package sizing

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumiere/backend/internal/domain/catalog"
	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/lumiere/backend/internal/domain/sizing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeResultCache records Get/Set traffic for cache behavior assertions
type fakeResultCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{entries: make(map[string][]byte)}
}

func (f *fakeResultCache) Get(_ context.Context, key string, dest any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[key]
	if !ok {
		return false
	}
	f.hits++
	return json.Unmarshal(payload, dest) == nil
}

func (f *fakeResultCache) Set(_ context.Context, key string, value any, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payload, err := json.Marshal(value); err == nil {
		f.entries[key] = payload
		f.sets++
	}
}

func (f *fakeResultCache) Invalidate(_ context.Context, prefix string) {}

func (f *fakeResultCache) Close() error { return nil }

func newVariant(productID uuid.UUID, displaySize, uic string, stock int) *catalog.ProductVariant {
	return &catalog.ProductVariant{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		DisplaySize: displaySize,
		BaseSizeUIC: uic,
		Stock:       stock,
	}
}

func TestSisterSizeService_SisterSizes(t *testing.T) {
	svc := NewSisterSizeService(new(MockVariantRepository), new(MockRecommendationRepository), sizing.StandardTables())

	t.Run("returns both sisters", func(t *testing.T) {
		resp, err := svc.SisterSizes(context.Background(), "UIC_BRA_BAND86_CUPVOL6")

		require.NoError(t, err)
		assert.Equal(t, 86, resp.Original.BandCm)
		assert.Equal(t, 6, resp.Original.CupVolume)
		require.NotNil(t, resp.SisterDown)
		assert.Equal(t, "UIC_BRA_BAND81_CUPVOL7", resp.SisterDown.UniversalCode)
		require.NotNil(t, resp.SisterUp)
		assert.Equal(t, "UIC_BRA_BAND91_CUPVOL5", resp.SisterUp.UniversalCode)
	})

	t.Run("omits sister up at minimum volume", func(t *testing.T) {
		resp, err := svc.SisterSizes(context.Background(), "UIC_BRA_BAND86_CUPVOL1")

		require.NoError(t, err)
		require.NotNil(t, resp.SisterDown)
		assert.Nil(t, resp.SisterUp)
	})

	t.Run("rejects malformed UIC", func(t *testing.T) {
		_, err := svc.SisterSizes(context.Background(), "BRA_BAND86")
		assert.Equal(t, sizing.ErrMalformedUIC, err)
	})

	t.Run("second lookup is served from cache", func(t *testing.T) {
		cache := newFakeResultCache()
		cached := NewSisterSizeService(new(MockVariantRepository), new(MockRecommendationRepository), sizing.StandardTables())
		cached.SetResultCache(cache, sizing.DefaultCacheConfig())

		first, err := cached.SisterSizes(context.Background(), "UIC_BRA_BAND86_CUPVOL6")
		require.NoError(t, err)
		second, err := cached.SisterSizes(context.Background(), "UIC_BRA_BAND86_CUPVOL6")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, 1, cache.hits)
	})
}

func TestSisterSizeService_SisterFamily(t *testing.T) {
	svc := NewSisterSizeService(new(MockVariantRepository), new(MockRecommendationRepository), sizing.StandardTables())

	t.Run("walks the chain ordered by ascending band", func(t *testing.T) {
		resp, err := svc.SisterFamily(context.Background(), "UIC_BRA_BAND86_CUPVOL3", "US")

		require.NoError(t, err)
		require.NotEmpty(t, resp.Family)

		for i := 1; i < len(resp.Family); i++ {
			assert.Greater(t, resp.Family[i].BandCm, resp.Family[i-1].BandCm)
		}

		originals := 0
		for _, m := range resp.Family {
			if m.IsOriginal {
				originals++
				assert.Equal(t, "UIC_BRA_BAND86_CUPVOL3", m.UniversalCode)
			}
			assert.NotEmpty(t, m.DisplaySize)
		}
		assert.Equal(t, 1, originals)
	})

	t.Run("stops where the region progression runs out", func(t *testing.T) {
		// US tops out at volume 15, so only one sister down is renderable.
		resp, err := svc.SisterFamily(context.Background(), "UIC_BRA_BAND86_CUPVOL14", "US")

		require.NoError(t, err)
		for _, m := range resp.Family {
			assert.LessOrEqual(t, m.CupVolume, 15)
		}
	})

	t.Run("rejects unsupported region", func(t *testing.T) {
		_, err := svc.SisterFamily(context.Background(), "UIC_BRA_BAND86_CUPVOL3", "ZZ")
		assert.Equal(t, sizing.ErrUnsupportedRegion, err)
	})
}

func TestSisterSizeService_FindAlternatives(t *testing.T) {
	productID := uuid.New()
	ctx := context.Background()

	t.Run("out of stock size offers both in-stock sisters", func(t *testing.T) {
		variantRepo := new(MockVariantRepository)
		recRepo := new(MockRecommendationRepository)
		svc := NewSisterSizeService(variantRepo, recRepo, sizing.StandardTables())

		requested := newVariant(productID, "34C", "UIC_BRA_BAND86_CUPVOL6", 0)
		down := newVariant(productID, "32D", "UIC_BRA_BAND81_CUPVOL7", 5)
		up := newVariant(productID, "36B", "UIC_BRA_BAND91_CUPVOL5", 3)

		variantRepo.On("FindByProductAndDisplaySize", ctx, productID, "34C").Return(requested, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND81_CUPVOL7").Return([]catalog.ProductVariant{*down}, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND91_CUPVOL5").Return([]catalog.ProductVariant{*up}, nil)
		recRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.FindAlternatives(ctx, productID, "34C", "US", "sess-1")

		require.NoError(t, err)
		assert.False(t, resp.IsAvailable)
		require.Len(t, resp.Alternatives, 2)

		assert.Equal(t, ledger.RecommendationSisterDown, resp.Alternatives[0].Type)
		assert.Equal(t, "32D", resp.Alternatives[0].Size)
		assert.Equal(t, 5, resp.Alternatives[0].Stock)
		assert.Equal(t, ledger.RecommendationSisterUp, resp.Alternatives[1].Type)
		assert.Equal(t, "36B", resp.Alternatives[1].Size)
		assert.Equal(t, 3, resp.Alternatives[1].Stock)

		require.NotNil(t, resp.Alternatives[0].RecommendationID)
		require.NotNil(t, resp.Alternatives[1].RecommendationID)
		recRepo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("in-stock request short-circuits", func(t *testing.T) {
		variantRepo := new(MockVariantRepository)
		recRepo := new(MockRecommendationRepository)
		svc := NewSisterSizeService(variantRepo, recRepo, sizing.StandardTables())

		requested := newVariant(productID, "32D", "UIC_BRA_BAND81_CUPVOL7", 4)
		variantRepo.On("FindByProductAndDisplaySize", ctx, productID, "32D").Return(requested, nil)

		resp, err := svc.FindAlternatives(ctx, productID, "32D", "US", "sess-1")

		require.NoError(t, err)
		assert.True(t, resp.IsAvailable)
		assert.Equal(t, 4, resp.Stock)
		assert.Empty(t, resp.Alternatives)
		variantRepo.AssertNotCalled(t, "FindByProductAndUIC", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero-stock sister ranks after in-stock one", func(t *testing.T) {
		variantRepo := new(MockVariantRepository)
		recRepo := new(MockRecommendationRepository)
		svc := NewSisterSizeService(variantRepo, recRepo, sizing.StandardTables())

		requested := newVariant(productID, "34C", "UIC_BRA_BAND86_CUPVOL6", 0)
		down := newVariant(productID, "32D", "UIC_BRA_BAND81_CUPVOL7", 0)
		up := newVariant(productID, "36B", "UIC_BRA_BAND91_CUPVOL5", 2)

		variantRepo.On("FindByProductAndDisplaySize", ctx, productID, "34C").Return(requested, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND81_CUPVOL7").Return([]catalog.ProductVariant{*down}, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND91_CUPVOL5").Return([]catalog.ProductVariant{*up}, nil)
		recRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.FindAlternatives(ctx, productID, "34C", "US", "sess-2")

		require.NoError(t, err)
		require.Len(t, resp.Alternatives, 2)
		assert.Equal(t, ledger.RecommendationSisterUp, resp.Alternatives[0].Type)
		assert.True(t, resp.Alternatives[0].InStock)
		assert.Equal(t, ledger.RecommendationSisterDown, resp.Alternatives[1].Type)
		assert.False(t, resp.Alternatives[1].InStock)
	})

	t.Run("no recommendation persisted when every sister is out of stock", func(t *testing.T) {
		variantRepo := new(MockVariantRepository)
		recRepo := new(MockRecommendationRepository)
		svc := NewSisterSizeService(variantRepo, recRepo, sizing.StandardTables())

		requested := newVariant(productID, "34C", "UIC_BRA_BAND86_CUPVOL6", 0)
		down := newVariant(productID, "32D", "UIC_BRA_BAND81_CUPVOL7", 0)

		variantRepo.On("FindByProductAndDisplaySize", ctx, productID, "34C").Return(requested, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND81_CUPVOL7").Return([]catalog.ProductVariant{*down}, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND91_CUPVOL5").Return([]catalog.ProductVariant{}, nil)

		resp, err := svc.FindAlternatives(ctx, productID, "34C", "US", "sess-3")

		require.NoError(t, err)
		require.Len(t, resp.Alternatives, 1)
		assert.Nil(t, resp.Alternatives[0].RecommendationID)
		recRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("deterministic ordering for fixed stock", func(t *testing.T) {
		variantRepo := new(MockVariantRepository)
		recRepo := new(MockRecommendationRepository)
		svc := NewSisterSizeService(variantRepo, recRepo, sizing.StandardTables())

		requested := newVariant(productID, "34C", "UIC_BRA_BAND86_CUPVOL6", 0)
		down := newVariant(productID, "32D", "UIC_BRA_BAND81_CUPVOL7", 5)
		up := newVariant(productID, "36B", "UIC_BRA_BAND91_CUPVOL5", 3)

		variantRepo.On("FindByProductAndDisplaySize", ctx, productID, "34C").Return(requested, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND81_CUPVOL7").Return([]catalog.ProductVariant{*down}, nil)
		variantRepo.On("FindByProductAndUIC", ctx, productID, "UIC_BRA_BAND91_CUPVOL5").Return([]catalog.ProductVariant{*up}, nil)
		recRepo.On("Save", ctx, mock.Anything).Return(nil)

		var orderings [][]ledger.RecommendationType
		for i := 0; i < 5; i++ {
			resp, err := svc.FindAlternatives(ctx, productID, "34C", "US", "sess-4")
			require.NoError(t, err)
			types := make([]ledger.RecommendationType, 0, len(resp.Alternatives))
			for _, a := range resp.Alternatives {
				types = append(types, a.Type)
			}
			orderings = append(orderings, types)
		}
		for i := 1; i < len(orderings); i++ {
			assert.Equal(t, orderings[0], orderings[i])
		}
	})

	t.Run("unknown size propagates not-found", func(t *testing.T) {
		variantRepo := new(MockVariantRepository)
		svc := NewSisterSizeService(variantRepo, new(MockRecommendationRepository), sizing.StandardTables())

		variantRepo.On("FindByProductAndDisplaySize", ctx, productID, "44Z").Return(nil, shared.ErrNotFound)

		_, err := svc.FindAlternatives(ctx, productID, "44Z", "US", "sess-5")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestSisterSizeService_AcceptRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("accept stamps the record", func(t *testing.T) {
		recRepo := new(MockRecommendationRepository)
		svc := NewSisterSizeService(new(MockVariantRepository), recRepo, sizing.StandardTables())

		rec, err := ledger.NewSisterSizeRecommendation(
			uuid.New(), uuid.New(),
			"34C", "UIC_BRA_BAND86_CUPVOL6",
			"32D", "UIC_BRA_BAND81_CUPVOL7",
			ledger.RecommendationSisterDown, "sess-1", "US",
		)
		require.NoError(t, err)

		recRepo.On("FindByID", ctx, rec.ID).Return(rec, nil)
		recRepo.On("Save", ctx, rec).Return(nil)

		resp, err := svc.AcceptRecommendation(ctx, rec.ID)

		require.NoError(t, err)
		assert.True(t, resp.Accepted)
		assert.NotNil(t, resp.AcceptedAt)
	})

	t.Run("unknown id is not-found", func(t *testing.T) {
		recRepo := new(MockRecommendationRepository)
		svc := NewSisterSizeService(new(MockVariantRepository), recRepo, sizing.StandardTables())

		id := uuid.New()
		recRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.AcceptRecommendation(ctx, id)
		assert.Equal(t, shared.ErrNotFound, err)
		recRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSisterSizeService_AcceptanceStats(t *testing.T) {
	ctx := context.Background()
	recRepo := new(MockRecommendationRepository)
	svc := NewSisterSizeService(new(MockVariantRepository), recRepo, sizing.StandardTables())

	recRepo.On("CountByTypeAndAcceptance", ctx).Return([]ledger.AcceptanceCount{
		{Type: ledger.RecommendationSisterDown, Accepted: true, Count: 25},
		{Type: ledger.RecommendationSisterDown, Accepted: false, Count: 75},
		{Type: ledger.RecommendationSisterUp, Accepted: true, Count: 10},
		{Type: ledger.RecommendationSisterUp, Accepted: false, Count: 30},
	}, nil)

	resp, err := svc.AcceptanceStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(140), resp.Total)
	require.Len(t, resp.ByType, 2)
	assert.Equal(t, ledger.RecommendationSisterDown, resp.ByType[0].Type)
	assert.Equal(t, int64(100), resp.ByType[0].Total)
	assert.Equal(t, int64(25), resp.ByType[0].Accepted)
	assert.Equal(t, "0.25", resp.ByType[0].AcceptanceRate.String())
	assert.Equal(t, "0.25", resp.ByType[1].AcceptanceRate.String())
}

func TestSisterSizeService_TopOutOfStock(t *testing.T) {
	ctx := context.Background()
	recRepo := new(MockRecommendationRepository)
	svc := NewSisterSizeService(new(MockVariantRepository), recRepo, sizing.StandardTables())

	productID := uuid.New()
	recRepo.On("TopRequestedSizes", ctx, 10).Return([]ledger.OutOfStockSize{
		{ProductID: productID, RequestedSize: "32DD", Requests: 17},
	}, nil)

	resp, err := svc.TopOutOfStock(ctx, 10)

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "32DD", resp[0].RequestedSize)
	assert.Equal(t, int64(17), resp[0].Requests)
}
