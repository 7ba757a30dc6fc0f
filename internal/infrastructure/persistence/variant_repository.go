package persistence

import (
	"context"
	"errors"

	"github.com/lumiere/backend/internal/domain/catalog"
	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByProductAndDisplaySize finds a product's variant by its display size
func (r *GormVariantRepository) FindByProductAndDisplaySize(ctx context.Context, productID uuid.UUID, displaySize string) (*catalog.ProductVariant, error) {
	var variant catalog.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND display_size = ?", productID, displaySize).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByProductAndUIC finds all of a product's variants carrying a base size UIC.
// Multiple variants can share one UIC (one per color).
func (r *GormVariantRepository) FindByProductAndUIC(ctx context.Context, productID uuid.UUID, uic string) ([]catalog.ProductVariant, error) {
	var variants []catalog.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND base_size_uic = ?", productID, uic).
		Order("stock DESC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindByProduct finds all variants of a product
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	var variants []catalog.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("display_size ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
