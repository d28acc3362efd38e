// Package config loads the YAML settings shared by the game and the launcher.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/fingerbird/internal/detector"
	"github.com/ayusman/fingerbird/internal/logger"
)

// FileName is the config file looked up inside the data directory.
const FileName = "config.yaml"

// Config holds every tunable outside the game rules themselves.
type Config struct {
	CameraID      int             `yaml:"camera_id"`
	Mirror        bool            `yaml:"mirror"`
	Seed          uint64          `yaml:"seed"` // 0 picks a seed from the clock
	DataDir       string          `yaml:"data_dir"`
	SpectatorAddr string          `yaml:"spectator_addr"` // empty disables the spectator feed
	Detector      detector.Config `yaml:"detector"`
	Launcher      Launcher        `yaml:"launcher"`
	Log           logger.Config   `yaml:"log"`
}

// Launcher configures the HTTP launcher service.
type Launcher struct {
	Addr    string   `yaml:"addr"`
	Command string   `yaml:"command"` // game binary; empty means fingerbird next to the launcher
	Args    []string `yaml:"args"`
	Tray    bool     `yaml:"tray"`
	Static  string   `yaml:"static_dir"` // optional directory served at /
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		CameraID: 0,
		Mirror:   true,
		DataDir:  DefaultDataDir(),
		Detector: detector.DefaultConfig(),
		Launcher: Launcher{
			Addr: "127.0.0.1:5000",
		},
		Log: logger.DefaultConfig(),
	}
}

// DefaultDataDir returns ~/.fingerbird, or .fingerbird when the home
// directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fingerbird"
	}
	return filepath.Join(home, ".fingerbird")
}

// EnvFile is the optional dotenv file read from the config directory.
const EnvFile = ".env"

// Load reads path over the defaults. A missing file is not an error.
// Variables from a .env file next to path are exported first, without
// overriding the real environment, and then applied as overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := loadEnvFile(filepath.Join(filepath.Dir(path), EnvFile)); err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			var typeErr *yaml.TypeError
			if errors.As(err, &typeErr) {
				return cfg, fmt.Errorf("invalid config %s: %s", path, strings.Join(typeErr.Errors, "; "))
			}
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	cfg.Log = logger.FromEnv(cfg.Log)
	return cfg, cfg.Validate()
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.CameraID < 0 {
		errs = append(errs, fmt.Errorf("camera_id must be >= 0, got %d", c.CameraID))
	}
	if c.Detector.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("detector.max_hands must be >= 1, got %d", c.Detector.MaxHands))
	}
	for name, v := range map[string]float64{
		"detector.min_confidence":          c.Detector.MinConfidence,
		"detector.min_tracking_confidence": c.Detector.MinTrackingConf,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %g", name, v))
		}
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	return errors.Join(errs...)
}

// DBPath returns the run history database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "fingerbird.db")
}
