package catalog

import (
	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductVariant is a sellable size/color combination of a product. The
// sizing engine consumes variants read-only: display size and UIC identify
// the size, stock says whether it can be offered. Stock mutation belongs to
// the order and cart services.
type ProductVariant struct {
	shared.BaseEntity
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DisplaySize string    `gorm:"type:varchar(20);not null"`
	BaseSizeUIC string    `gorm:"column:base_size_uic;type:varchar(50);not null;index"`
	ColorName   string    `gorm:"type:varchar(50)"`
	SKU         string    `gorm:"type:varchar(50);uniqueIndex"`
	Stock       int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// InStock reports whether the variant can be offered
func (v *ProductVariant) InStock() bool {
	return v.Stock > 0
}
