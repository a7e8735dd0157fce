package db

import (
	"testing"

	"city-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

// Snapshots written by earlier versions may hold a JSON string or a GeoJSON
// object in the attractions column. jsonb_array_length errors on those shapes
// and would poison every scheduled scan, so the candidate scan must classify
// non-array rows via jsonb_typeof and detect emptiness without it.
func TestRefreshCandidateScanToleratesNonArrayShapes(t *testing.T) {
	gateway := NewGormCityGateway(newDryRunDB(t))

	var cities []entity.City
	stmt := gateway.refreshCandidateQuery(5, 3).Find(&cities).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "jsonb_typeof(attractions) <> 'array'")
	assert.Contains(t, sql, "attractions = '[]'::jsonb")
	assert.NotContains(t, sql, "jsonb_array_length")
	assert.Contains(t, stmt.Vars, `[{"_fetchFailed": true}]`)
}

func TestRefreshCandidateScanUsesKeysetPagination(t *testing.T) {
	gateway := NewGormCityGateway(newDryRunDB(t))

	var cities []entity.City
	stmt := gateway.refreshCandidateQuery(42, 10).Find(&cities).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "id > ")
	assert.Contains(t, sql, "ORDER BY id")
	assert.Contains(t, stmt.Vars, uint(42))
}
