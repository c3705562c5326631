package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneks/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("ANEKS_TEST_DIR", "/srv/ugovori")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/data", filepath.Join(home, "data")},
		{"$ANEKS_TEST_DIR/izvor", "/srv/ugovori/izvor"},
		{"./relative", "./relative"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	p, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "./contracts", p.SourcePath)
	assert.Equal(t, "./data", p.WorkingDir)
	assert.Equal(t, "./output", p.OutputDir)
	assert.Equal(t, filepath.Join("data", "aneks.db"), p.DatabasePath)
	assert.Equal(t, 90, p.FuzzyThreshold)
	assert.True(t, p.FuzzyEnabled)

	assert.Equal(t, filepath.Join("data", "source"), p.WorkingCopyPath())
	assert.Equal(t, filepath.Join("data", "inventory.json"), p.InventoryPath())
	assert.Equal(t, filepath.Join("data", ".aneks.lock"), p.LockPath())
}

func TestLoadFrom_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("paths.source", "/mnt/ugovori")
	v.Set("paths.working_dir", "/var/aneks")
	v.Set("database.path", "/var/aneks/state.db")
	v.Set("inventory.fuzzy_threshold", 85)
	v.Set("inventory.fuzzy_enabled", false)

	p, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/ugovori", p.SourcePath)
	assert.Equal(t, "/var/aneks/state.db", p.DatabasePath)
	assert.Equal(t, 85, p.FuzzyThreshold)
	assert.False(t, p.FuzzyEnabled)
	assert.Equal(t, "/var/aneks/source", p.WorkingCopyPath())
}

func TestLoadFrom_Invalid(t *testing.T) {
	for _, threshold := range []int{-1, 0, 101} {
		v := viper.New()
		v.Set("inventory.fuzzy_threshold", threshold)
		_, err := LoadFrom(v)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	}

	v := viper.New()
	v.Set("inventory.fuzzy_threshold", 1)
	p, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 1, p.FuzzyThreshold)

	v = viper.New()
	v.Set("inventory.fuzzy_enabled", false)
	p, err = LoadFrom(v)
	require.NoError(t, err)
	assert.False(t, p.FuzzyEnabled)
	assert.Equal(t, DefaultFuzzyThreshold, p.FuzzyThreshold)

	v = viper.New()
	v.Set("paths.working_dir", "")
	_, err = LoadFrom(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Run("environment fallback", func(t *testing.T) {
		viper.Reset()
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/keys/sa.json")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "sheet-123")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "sheet-123", cfg.SpreadsheetID)
		assert.Equal(t, "Popis datoteka", cfg.SheetTitle)
	})

	t.Run("viper wins over environment", func(t *testing.T) {
		viper.Reset()
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "from env")
		viper.Set("sheets.service_account_path", "/cfg/sa.json")
		viper.Set("sheets.spreadsheet_name", "Ugovori 2025")
		viper.Set("sheets.sheet_title", "Datoteke")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "/cfg/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "Ugovori 2025", cfg.SpreadsheetName)
		assert.Equal(t, "Datoteke", cfg.SheetTitle)
	})

	t.Run("no auth", func(t *testing.T) {
		viper.Reset()
		for _, k := range []string{
			"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_CLIENT_ID",
			"GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		} {
			t.Setenv(k, "")
		}
		_, err := LoadSheetsConfig()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}
