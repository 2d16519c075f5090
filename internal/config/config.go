package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"memorymatch/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces process environment overrides, e.g. MEMORYMATCH_PAIR_COUNT.
const EnvPrefix = "MEMORYMATCH"

// RuntimeEnvPrefix namespaces keys in the Nakama runtime env map, e.g. memorymatch_pair_count.
const RuntimeEnvPrefix = "memorymatch_"

// GameConfig holds tunables shared by every front end.
type GameConfig struct {
	PairCount             int    `mapstructure:"pair_count" json:"pair_count" validate:"min=1,max=32"`
	ResolutionDelayMillis int    `mapstructure:"resolution_delay_ms" json:"resolution_delay_ms" validate:"min=0,max=60000"`
	TickRate              int    `mapstructure:"tick_rate" json:"tick_rate" validate:"min=1,max=60"` // Nakama accepts 1..60
	Columns               int    `mapstructure:"columns" json:"columns" validate:"min=1,max=16"`
	LogLevel              string `mapstructure:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the stock configuration: six pairs, one second reveal.
func Default() GameConfig {
	return GameConfig{
		PairCount:             domain.DefaultPairCount,
		ResolutionDelayMillis: 1000,
		TickRate:              10,
		Columns:               4,
		LogLevel:              "info",
	}
}

// ResolutionDelay returns the reveal delay as a duration.
func (c GameConfig) ResolutionDelay() time.Duration {
	return time.Duration(c.ResolutionDelayMillis) * time.Millisecond
}

// DelayTicks converts the reveal delay into whole match ticks, rounding up
// so the reveal is never shorter than configured. A zero delay still waits
// one tick.
func (c GameConfig) DelayTicks() int64 {
	if c.TickRate <= 0 {
		return 1
	}
	ticks := (int64(c.ResolutionDelayMillis)*int64(c.TickRate) + 999) / 1000
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}

var validate = validator.New()

// Validate checks field bounds.
func (c GameConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}
	return nil
}

func newViper(base GameConfig) *viper.Viper {
	v := viper.New()
	v.SetDefault("pair_count", base.PairCount)
	v.SetDefault("resolution_delay_ms", base.ResolutionDelayMillis)
	v.SetDefault("tick_rate", base.TickRate)
	v.SetDefault("columns", base.Columns)
	v.SetDefault("log_level", base.LogLevel)
	return v
}

func decode(v *viper.Viper) (*GameConfig, error) {
	var cfg GameConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FlagKeys maps command-line flag names onto configuration keys.
var FlagKeys = map[string]string{
	"pairs":     "pair_count",
	"delay-ms":  "resolution_delay_ms",
	"columns":   "columns",
	"log-level": "log_level",
}

// Load reads configuration from defaults, the optional file at path
// (JSON, YAML or TOML by extension) and MEMORYMATCH_* environment variables,
// in increasing precedence.
func Load(path string) (*GameConfig, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load with explicitly set flags from FlagKeys taking
// precedence over everything else. Flags missing from the set are skipped.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*GameConfig, error) {
	v := newViper(Default())
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read game config: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	return decode(v)
}

// FromRuntimeEnv overlays memorymatch_* keys from a Nakama runtime env map
// onto base.
func FromRuntimeEnv(base GameConfig, env map[string]string) (*GameConfig, error) {
	v := newViper(base)
	for key, val := range env {
		if name, ok := strings.CutPrefix(key, RuntimeEnvPrefix); ok {
			v.Set(name, val)
		}
	}
	return decode(v)
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the process-wide configuration once from path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := loadOptional(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// loadOptional is Load for a file that may be absent. Without the file,
// defaults and MEMORYMATCH_* environment variables still apply.
func loadOptional(path string) (*GameConfig, error) {
	c, err := Load(path)
	if err != nil && IsNotFound(err) {
		return Load("")
	}
	return c, err
}

// GetGameConfig returns the process-wide configuration, or the defaults if
// none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// IsNotFound reports whether err came from a missing config file.
func IsNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
