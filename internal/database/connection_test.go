package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolab/internal/config"
	"robolab/internal/domain"
)

func TestOpenSQLiteAndSeed(t *testing.T) {
	cfg := &config.DatabaseConfig{URL: "sqlite:///" + filepath.Join(t.TempDir(), "seed.db")}
	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, SeedLookups(db, domain.DefaultAgeGroups, domain.DefaultOrganizationTypes))

	var ageGroups int64
	require.NoError(t, db.Model(&domain.AgeGroup{}).Count(&ageGroups).Error)
	assert.EqualValues(t, len(domain.DefaultAgeGroups), ageGroups)

	// Reseeding deactivates in place instead of duplicating
	retired := []domain.AgeGroup{{Code: "16+", Label: "Adults", Active: false, SortOrder: 99}}
	require.NoError(t, SeedLookups(db, retired, nil))

	var row domain.AgeGroup
	require.NoError(t, db.Where("code = ?", "16+").First(&row).Error)
	assert.False(t, row.Active)
	assert.Equal(t, "Adults", row.Label)
	assert.Equal(t, 99, row.SortOrder)

	require.NoError(t, db.Model(&domain.AgeGroup{}).Count(&ageGroups).Error)
	assert.EqualValues(t, len(domain.DefaultAgeGroups), ageGroups)

	require.NoError(t, HealthCheck(db))
	stats, err := GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}
