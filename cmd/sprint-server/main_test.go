package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sprint.report/internal/units"
)

func TestFlagDefaults(t *testing.T) {
	assert.Equal(t, ":8080", *listen)
	assert.Equal(t, "sprint.db", *dbPath)
	assert.False(t, *devMode)
	assert.Equal(t, 0.4, *devStep)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"display_units":"kmph","metres_per_unit":0.01}`), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, units.KMPH, cfg.GetDisplayUnits())
	assert.Equal(t, 0.01, cfg.GetMetresPerUnit())

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfig_Fallback(t *testing.T) {
	// The test binary runs in the package directory, where no defaults file exists.
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, units.MPS, cfg.GetDisplayUnits())
}
