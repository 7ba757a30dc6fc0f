package catalog

import (
	"context"

	"github.com/google/uuid"
)

// VariantRepository provides read access to product variants.
// Returns shared.ErrNotFound when no variant matches.
type VariantRepository interface {
	FindByProductAndDisplaySize(ctx context.Context, productID uuid.UUID, displaySize string) (*ProductVariant, error)
	FindByProductAndUIC(ctx context.Context, productID uuid.UUID, uic string) ([]ProductVariant, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductVariant, error)
}

// BrandRepository provides read access to brand fit profiles
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindAllActive(ctx context.Context) ([]Brand, error)
}
