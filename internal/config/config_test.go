package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaulting and format validations for settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config is valid and picks up every default.
	cfg := new(Config)

	err := Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultTickInterval, cfg.TickInterval)
	require.Equal(t, DefaultTimerPollInterval, cfg.TimerPollInterval)
	require.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)

	// Bad log level.
	cfg = &Config{LogLevel: "loud"}
	require.Error(t, Validate(cfg))

	// Bad preset alarm time.
	cfg = &Config{
		Alarms: []PresetAlarm{{Time: "25:00", Label: "Wake"}},
	}
	require.Error(t, Validate(cfg))

	// Explicit values survive validation.
	cfg = &Config{
		LogLevel:     "debug",
		TickInterval: 250 * time.Millisecond,
		Alarms:       []PresetAlarm{{Time: "07:30", Label: "Wake", Sound: "chime"}},
	}
	require.NoError(t, Validate(cfg))
	require.Equal(t, 250*time.Millisecond, cfg.TickInterval)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		LogLevel:       "warn",
		SoundDirectory: "/usr/share/sounds",
		Alarms: []PresetAlarm{
			{Time: "07:30", Label: "Wake", Sound: "chime", Voice: true},
			{Time: "22:00", Label: "Wind down"},
		},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.LogLevel, loaded.LogLevel)
	require.Equal(t, cfg.SoundDirectory, loaded.SoundDirectory)
	require.Equal(t, cfg.Alarms, loaded.Alarms)

	// Defaults applied on load.
	require.Equal(t, DefaultTickInterval, loaded.TickInterval)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestSaveNil rejects a nil configuration.
func TestSaveNil(t *testing.T) {
	t.Parallel()

	err := Save(filepath.Join(t.TempDir(), "settings.yaml"), nil)
	require.Error(t, err)
}
