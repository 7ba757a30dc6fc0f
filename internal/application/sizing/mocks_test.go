package sizing

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumiere/backend/internal/domain/catalog"
	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/stretchr/testify/mock"
)

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByProductAndDisplaySize(ctx context.Context, productID uuid.UUID, displaySize string) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, productID, displaySize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FindByProductAndUIC(ctx context.Context, productID uuid.UUID, uic string) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, productID, uic)
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

// MockBrandRepository is a mock implementation of catalog.BrandRepository
type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) FindAllActive(ctx context.Context) ([]catalog.Brand, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Brand), args.Error(1)
}

// MockRecommendationRepository is a mock implementation of ledger.RecommendationRepository
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) Save(ctx context.Context, rec *ledger.SisterSizeRecommendation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecommendationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SisterSizeRecommendation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SisterSizeRecommendation), args.Error(1)
}

func (m *MockRecommendationRepository) CountByTypeAndAcceptance(ctx context.Context) ([]ledger.AcceptanceCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ledger.AcceptanceCount), args.Error(1)
}

func (m *MockRecommendationRepository) TopRequestedSizes(ctx context.Context, limit int) ([]ledger.OutOfStockSize, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]ledger.OutOfStockSize), args.Error(1)
}

// MockFeedbackRepository is a mock implementation of ledger.FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Save(ctx context.Context, feedback *ledger.BrandFitFeedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) FindByBrand(ctx context.Context, brandID uuid.UUID) ([]ledger.BrandFitFeedback, error) {
	args := m.Called(ctx, brandID)
	return args.Get(0).([]ledger.BrandFitFeedback), args.Error(1)
}
