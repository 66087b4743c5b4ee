package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPollInterval(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MinPollIntervalSec, ClampPollInterval(0))
	assert.Equal(t, MinPollIntervalSec, ClampPollInterval(-5))
	assert.Equal(t, MinPollIntervalSec, ClampPollInterval(29))
	assert.Equal(t, 60, ClampPollInterval(60))
	assert.Equal(t, MaxPollIntervalSec, ClampPollInterval(3600))
	assert.Equal(t, MaxPollIntervalSec, ClampPollInterval(100000))
}

func TestClampPageSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MinPageSize, ClampPageSize(0))
	assert.Equal(t, 25, ClampPageSize(25))
	assert.Equal(t, MaxPageSize, ClampPageSize(50))
	assert.Equal(t, MaxPageSize, ClampPageSize(999))
}

func TestSettingsClamped(t *testing.T) {
	t.Parallel()

	cfg := Settings{PollIntervalSec: 0, PageSize: 999}.Clamped()
	assert.Equal(t, MinPollIntervalSec, cfg.PollIntervalSec)
	assert.Equal(t, MaxPageSize, cfg.PageSize)
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPollIntervalSec, cfg.PollIntervalSec)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
}

func TestSaveSettingsRoundTripClampsOnLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveSettings(path, Settings{PollIntervalSec: 5, PageSize: 999}))

	cfg, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, MinPollIntervalSec, cfg.PollIntervalSec)
	assert.Equal(t, MaxPageSize, cfg.PageSize)
	assert.Empty(t, cfg.Token, "token must never round-trip through the config file")
}
