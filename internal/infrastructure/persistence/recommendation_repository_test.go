package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lumiere/backend/internal/domain/ledger"
	"github.com/lumiere/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormRecommendationRepository_Save(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormRecommendationRepository(db)

	rec, err := ledger.NewSisterSizeRecommendation(
		uuid.New(), uuid.New(),
		"36D", "UIC_BRA_BAND91_CUPVOL5",
		"38C", "UIC_BRA_BAND96_CUPVOL4",
		ledger.RecommendationSisterUp, "sess-123", "US",
	)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "sister_size_recommendations"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Save(context.Background(), rec)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRecommendationRepository_FindByID(t *testing.T) {
	t.Run("finds recommendation", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormRecommendationRepository(db)

		recID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "requested_uic", "recommended_uic", "recommendation_type", "accepted"}).
			AddRow(recID, "UIC_BRA_BAND91_CUPVOL5", "UIC_BRA_BAND86_CUPVOL6", "SISTER_DOWN", false)

		mock.ExpectQuery(`SELECT \* FROM "sister_size_recommendations" WHERE id = \$1`).
			WithArgs(recID, 1).
			WillReturnRows(rows)

		rec, err := repo.FindByID(context.Background(), recID)

		require.NoError(t, err)
		assert.Equal(t, ledger.RecommendationSisterDown, rec.Type)
		assert.False(t, rec.Accepted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing recommendation to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormRecommendationRepository(db)

		recID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "sister_size_recommendations" WHERE id = \$1`).
			WithArgs(recID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		rec, err := repo.FindByID(context.Background(), recID)

		assert.Nil(t, rec)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormRecommendationRepository_CountByTypeAndAcceptance(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormRecommendationRepository(db)

	rows := sqlmock.NewRows([]string{"type", "accepted", "count"}).
		AddRow("SISTER_DOWN", true, 12).
		AddRow("SISTER_DOWN", false, 30).
		AddRow("SISTER_UP", true, 4)

	mock.ExpectQuery(`SELECT recommendation_type AS type, accepted, COUNT\(\*\) AS count FROM "sister_size_recommendations"`).
		WillReturnRows(rows)

	counts, err := repo.CountByTypeAndAcceptance(context.Background())

	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, ledger.RecommendationSisterDown, counts[0].Type)
	assert.True(t, counts[0].Accepted)
	assert.Equal(t, int64(12), counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRecommendationRepository_TopRequestedSizes(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormRecommendationRepository(db)

	productID := uuid.New()

	rows := sqlmock.NewRows([]string{"product_id", "requested_size", "requests"}).
		AddRow(productID, "32DD", 17).
		AddRow(productID, "36B", 9)

	mock.ExpectQuery(`SELECT product_id, requested_size, COUNT\(\*\) AS requests FROM "sister_size_recommendations"`).
		WillReturnRows(rows)

	sizes, err := repo.TopRequestedSizes(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, sizes, 2)
	assert.Equal(t, "32DD", sizes[0].RequestedSize)
	assert.Equal(t, int64(17), sizes[0].Requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFeedbackRepository_FindByBrand(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormFeedbackRepository(db)

	brandID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "brand_id", "normal_size", "bought_size", "fit_rating"}).
		AddRow(uuid.New(), brandID, "34C", "34D", 2).
		AddRow(uuid.New(), brandID, "36B", "36B", 3)

	mock.ExpectQuery(`SELECT \* FROM "brand_fit_feedback" WHERE brand_id = \$1`).
		WithArgs(brandID).
		WillReturnRows(rows)

	feedback, err := repo.FindByBrand(context.Background(), brandID)

	require.NoError(t, err)
	require.Len(t, feedback, 2)
	assert.Equal(t, "34D", feedback[0].BoughtSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}
