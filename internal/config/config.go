package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/deskclock/internal/domain/clock"
	"github.com/oshokin/deskclock/internal/logger"
)

// PresetAlarm describes an alarm provisioned from the settings file at startup.
type PresetAlarm struct {
	// Time is the trigger time in "HH:MM" format.
	Time string `yaml:"time"`
	// Label is the human-readable alarm name.
	Label string `yaml:"label"`
	// Sound names the sound to play when the alarm fires.
	Sound string `yaml:"sound"`
	// Voice requests a spoken announcement on top of the sound.
	Voice bool `yaml:"voice"`
}

// Config holds runtime settings for the deskclock daemon.
type Config struct {
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// TickInterval is the alarm scheduler scan period.
	TickInterval time.Duration `yaml:"tick_interval"`
	// TimerPollInterval is the countdown watcher poll period.
	TimerPollInterval time.Duration `yaml:"timer_poll_interval"`
	// ShutdownTimeout bounds how long shutdown waits for background tasks.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// SoundDirectory is where alarm sounds (WAV files) are resolved by id.
	// When empty or missing, triggers are logged instead of played.
	SoundDirectory string `yaml:"sound_dir"`
	// Alarms are provisioned into the registry on startup.
	Alarms []PresetAlarm `yaml:"alarms"`
}

const (
	// DefaultConfigFilename is the default filename for daemon settings.
	DefaultConfigFilename = "deskclock-settings.yaml"

	// DefaultTickInterval is the default alarm scheduler scan period.
	DefaultTickInterval = time.Second

	// DefaultTimerPollInterval is the default countdown watcher poll period.
	DefaultTimerPollInterval = 100 * time.Millisecond

	// DefaultShutdownTimeout is the default bound on background-task shutdown.
	DefaultShutdownTimeout = 2 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for omitted fields.
func Validate(cfg *Config) error {
	if cfg.LogLevel != "" {
		if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("unknown log level %q", cfg.LogLevel)
		}
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	if cfg.TimerPollInterval <= 0 {
		cfg.TimerPollInterval = DefaultTimerPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	for i := range cfg.Alarms {
		preset := &cfg.Alarms[i]
		if _, _, err := clock.ParseClockTime(preset.Time); err != nil {
			return fmt.Errorf("alarm %d: %w", i, err)
		}
	}

	return nil
}
