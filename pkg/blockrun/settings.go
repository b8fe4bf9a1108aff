package blockrun

import (
	"time"

	"github.com/randalmurphal/blockrun/pkg/blockrun/config"
)

// Settings are the engine-wide toggles, passed explicitly at construction.
// There are no ambient environment reads; a caller that wants env-driven
// behavior loads it into a Settings value first.
type Settings struct {
	// Debug enables per-block debug logging.
	Debug bool

	// TestMode forces the deterministic runner bypass for every block.
	TestMode bool

	// DisableCache turns result caching off regardless of modifiers.
	DisableCache bool

	// DefaultTimeout overrides the 600s default cache TTL for blocks
	// without a timeout modifier. Zero keeps the hard default.
	DefaultTimeout time.Duration
}

// SettingsFromConfig builds Settings from a loaded configuration.
//
// Recognized keys: debug, test_mode, disable_cache, default_timeout
// (seconds or Go duration string).
func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		Debug:          cfg.Bool("debug", false),
		TestMode:       cfg.Bool("test_mode", false),
		DisableCache:   cfg.Bool("disable_cache", false),
		DefaultTimeout: cfg.Duration("default_timeout", 0),
	}
}

// LoadSettings reads a config file and lifts the engine keys into
// Settings. The residual Config keeps every key readable, so callers can
// hold their own configuration in the same file.
func LoadSettings(path string) (Settings, config.Config, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return Settings{}, config.Config{}, err
	}
	return SettingsFromConfig(cfg), cfg, nil
}
