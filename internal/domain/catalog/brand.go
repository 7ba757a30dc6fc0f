package catalog

import (
	"github.com/lumiere/backend/internal/domain/shared"
)

// FitType describes how a brand's garments run relative to standard sizing
type FitType string

const (
	FitTrueToSize FitType = "TRUE_TO_SIZE"
	FitRunsSmall  FitType = "RUNS_SMALL"
	FitRunsLarge  FitType = "RUNS_LARGE"
)

// Brand carries a brand's declared fit bias. BandAdjustment and
// CupAdjustment are signed step counts applied in the same direction to a
// customer's normal size (a fit bias, not the volume-preserving sister
// identity). The engine consumes brands read-only.
type Brand struct {
	shared.BaseEntity
	Name           string  `gorm:"type:varchar(100);not null"`
	Slug           string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	FitType        FitType `gorm:"type:varchar(20);not null;default:'TRUE_TO_SIZE'"`
	BandAdjustment int     `gorm:"not null;default:0"`
	CupAdjustment  int     `gorm:"not null;default:0"`
	FitNotes       string  `gorm:"type:text"`
	FitConfidence  float64 `gorm:"not null;default:0.5"`
	IsActive       bool    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// TrueToSize reports whether the brand needs no size adjustment
func (b *Brand) TrueToSize() bool {
	return b.FitType == FitTrueToSize && b.BandAdjustment == 0 && b.CupAdjustment == 0
}
