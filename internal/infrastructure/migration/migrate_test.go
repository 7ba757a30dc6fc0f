package migration

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchemaTables_CoversSizingSchema(t *testing.T) {
	assert.Equal(t, []string{
		"brands",
		"product_variants",
		"sister_size_recommendations",
		"brand_fit_feedback",
	}, SchemaTables)
}

func TestVerifySchema_AllTablesPresent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"table_name"})
	for _, table := range SchemaTables {
		rows.AddRow(table)
	}
	mock.ExpectQuery(`SELECT table_name FROM information_schema\.tables`).
		WillReturnRows(rows)

	err = VerifySchema(context.Background(), db, zap.NewNop())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifySchema_ReportsAllMissingTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"table_name"}).
		AddRow("brands").
		AddRow("product_variants")
	mock.ExpectQuery(`SELECT table_name FROM information_schema\.tables`).
		WillReturnRows(rows)

	err = VerifySchema(context.Background(), db, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sister_size_recommendations")
	assert.Contains(t, err.Error(), "brand_fit_feedback")
	assert.NotContains(t, err.Error(), "product_variants")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifySchema_EmptyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT table_name FROM information_schema\.tables`).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	err = VerifySchema(context.Background(), db, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing tables")
	for _, table := range SchemaTables {
		assert.Contains(t, err.Error(), table)
	}
}
