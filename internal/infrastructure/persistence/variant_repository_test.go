package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormVariantRepository_FindByProductAndDisplaySize(t *testing.T) {
	t.Run("finds matching variant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormVariantRepository(db)

		variantID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "product_id", "display_size", "base_size_uic", "stock"}).
			AddRow(variantID, productID, "34C", "UIC_BRA_BAND86_CUPVOL4", 5)

		mock.ExpectQuery(`SELECT \* FROM "product_variants" WHERE product_id = \$1 AND display_size = \$2`).
			WithArgs(productID, "34C", 1).
			WillReturnRows(rows)

		variant, err := repo.FindByProductAndDisplaySize(context.Background(), productID, "34C")

		require.NoError(t, err)
		assert.Equal(t, variantID, variant.ID)
		assert.Equal(t, "UIC_BRA_BAND86_CUPVOL4", variant.BaseSizeUIC)
		assert.Equal(t, 5, variant.Stock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing variant to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormVariantRepository(db)

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "product_variants" WHERE product_id = \$1 AND display_size = \$2`).
			WithArgs(productID, "44Z", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		variant, err := repo.FindByProductAndDisplaySize(context.Background(), productID, "44Z")

		assert.Nil(t, variant)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormVariantRepository_FindByProductAndUIC(t *testing.T) {
	t.Run("returns all variants carrying the UIC", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormVariantRepository(db)

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "product_id", "display_size", "base_size_uic", "color_name", "stock"}).
			AddRow(uuid.New(), productID, "32D", "UIC_BRA_BAND81_CUPVOL5", "Black", 5).
			AddRow(uuid.New(), productID, "32D", "UIC_BRA_BAND81_CUPVOL5", "Ivory", 2)

		mock.ExpectQuery(`SELECT \* FROM "product_variants" WHERE product_id = \$1 AND base_size_uic = \$2`).
			WithArgs(productID, "UIC_BRA_BAND81_CUPVOL5").
			WillReturnRows(rows)

		variants, err := repo.FindByProductAndUIC(context.Background(), productID, "UIC_BRA_BAND81_CUPVOL5")

		require.NoError(t, err)
		require.Len(t, variants, 2)
		assert.Equal(t, "Black", variants[0].ColorName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormVariantRepository(db)

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "product_variants" WHERE product_id = \$1 AND base_size_uic = \$2`).
			WithArgs(productID, "UIC_BRA_BAND61_CUPVOL9").
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "display_size", "base_size_uic", "stock"}))

		variants, err := repo.FindByProductAndUIC(context.Background(), productID, "UIC_BRA_BAND61_CUPVOL9")

		require.NoError(t, err)
		assert.Empty(t, variants)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBrandRepository_FindByID(t *testing.T) {
	t.Run("finds brand with fit profile", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBrandRepository(db)

		brandID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "slug", "fit_type", "band_adjustment", "cup_adjustment", "fit_notes", "fit_confidence", "is_active"}).
			AddRow(brandID, "Agent Provocateur", "agent-provocateur", "RUNS_SMALL", 1, 1, "Runs small in band and cup", 0.8, true)

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE id = \$1`).
			WithArgs(brandID, 1).
			WillReturnRows(rows)

		brand, err := repo.FindByID(context.Background(), brandID)

		require.NoError(t, err)
		assert.Equal(t, 1, brand.BandAdjustment)
		assert.Equal(t, 1, brand.CupAdjustment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing brand to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBrandRepository(db)

		brandID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE id = \$1`).
			WithArgs(brandID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		brand, err := repo.FindByID(context.Background(), brandID)

		assert.Nil(t, brand)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
