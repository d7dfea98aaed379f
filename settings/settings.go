package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fujix-tas/fujix/physics"
	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override values of the settings file, for
// example FUJIX_PHANTOM_ROLLBACK_TICKS.
const EnvPrefix = "FUJIX"

// Settings contains everything that can be configured for a fujix session.
type Settings struct {
	Logging struct {
		// Level is a logrus level name.
		Level string `toml:"level" mapstructure:"level"`
		// File is a rolling log file. Logs only go to stderr when it is empty.
		File      string `toml:"file" mapstructure:"file"`
		MaxSizeMB int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	} `toml:"logging" mapstructure:"logging"`

	Recording struct {
		Dir string `toml:"dir" mapstructure:"dir"`
		// FillGaps repeats the previous input for ticks the client skipped.
		FillGaps bool `toml:"fill_gaps" mapstructure:"fill_gaps"`
	} `toml:"recording" mapstructure:"recording"`

	Phantom struct {
		HistorySize     int   `toml:"history_size" mapstructure:"history_size"`
		RollbackEnabled bool  `toml:"rollback_enabled" mapstructure:"rollback_enabled"`
		RollbackTicks   int32 `toml:"rollback_ticks" mapstructure:"rollback_ticks"`
	} `toml:"phantom" mapstructure:"phantom"`

	Avoidance struct {
		// Enabled re-hooks away from freeze the local character is about to run into.
		Enabled bool `toml:"enabled" mapstructure:"enabled"`
		// PredictTicks is how far ahead freeze is looked for, between 2 and 20 ticks.
		PredictTicks int `toml:"predict_ticks" mapstructure:"predict_ticks"`
	} `toml:"avoidance" mapstructure:"avoidance"`

	Prediction struct {
		HistorySize int `toml:"history_size" mapstructure:"history_size"`
	} `toml:"prediction" mapstructure:"prediction"`

	Tuning physics.TuningParams `toml:"tuning" mapstructure:"tuning"`

	Sentry struct {
		DSN string `toml:"dsn" mapstructure:"dsn"`
	} `toml:"sentry" mapstructure:"sentry"`

	Debug struct {
		StatsView bool   `toml:"stats_view" mapstructure:"stats_view"`
		Addr      string `toml:"addr" mapstructure:"addr"`
	} `toml:"debug" mapstructure:"debug"`

	Transport struct {
		URL string `toml:"url" mapstructure:"url"`
	} `toml:"transport" mapstructure:"transport"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Logging.Level = "info"
	s.Logging.MaxSizeMB = 16

	s.Recording.Dir = "recordings"
	s.Recording.FillGaps = true

	s.Phantom.HistorySize = 250
	s.Phantom.RollbackTicks = 25

	s.Avoidance.PredictTicks = 10

	s.Prediction.HistorySize = 128
	s.Tuning = physics.DefaultTuning()

	s.Debug.Addr = "localhost:18066"
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Values missing from the file keep their defaults and FUJIX_ environment variables override both.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	s := DefaultSettings()
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}
