// Package config loads the optional bddview configuration file.
//
// The file is TOML or YAML, picked by extension. Every value has a default,
// so a missing file is not an error. Command-line flags override the file.
//
//	[surface]
//	width = 800
//	height = 600
//
//	[output]
//	formats = ["svg", "png"]
//	scale = 2
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = "localhost:8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/bddview/pkg/errors"
)

const appName = "bddview"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	Surface SurfaceConfig `toml:"surface" yaml:"surface"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// SurfaceConfig is the surface size before the first pass.
type SurfaceConfig struct {
	Width  float64 `toml:"width" yaml:"width" validate:"gte=0,lte=100000"`
	Height float64 `toml:"height" yaml:"height" validate:"gte=0,lte=100000"`
}

// OutputConfig selects what a pass writes.
type OutputConfig struct {
	VizType string   `toml:"viz_type" yaml:"viz_type" validate:"omitempty,oneof=canvas graphviz"`
	Formats []string `toml:"formats" yaml:"formats" validate:"dive,oneof=svg png pdf json dot"`
	Scale   float64  `toml:"scale" yaml:"scale" validate:"gte=0,lte=8"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend" yaml:"backend" validate:"omitempty,oneof=file redis none"`
	Dir       string        `toml:"dir" yaml:"dir"`
	RedisAddr string        `toml:"redis_addr" yaml:"redis_addr" validate:"required_if=Backend redis,omitempty,hostname_port"`
	RedisDB   int           `toml:"redis_db" yaml:"redis_db" validate:"gte=0,lte=15"`
	TTL       time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`
}

// ServerConfig configures `bddview serve`.
type ServerConfig struct {
	Addr     string `toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
	MaxInput int    `toml:"max_input" yaml:"max_input" validate:"gte=0"`
}

// validate is a singleton validator instance.
var validate = validator.New()

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Surface: SurfaceConfig{Width: 800, Height: 600},
		Output:  OutputConfig{VizType: "canvas", Formats: []string{"svg"}, Scale: 1},
		Cache:   CacheConfig{Backend: BackendFile},
		Server:  ServerConfig{Addr: "localhost:8080", MaxInput: errs.DefaultMaxInput},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/bddview/config.toml, falling back to
// the platform config directory.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName, "config.toml")
	}
	return filepath.Join(".", appName+".toml")
}

// Load reads and validates the file at path. Values absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
	}
	return Parse(data, filepath.Ext(path))
}

// LoadOptional loads path when it exists and returns the defaults otherwise.
// An empty path means DefaultPath.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes data in the format named by ext (".toml", ".yaml" or ".yml")
// over the defaults and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode toml")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unsupported config format %q (use .toml or .yaml)", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, formatValidationError(err), "invalid config")
	}
	return nil
}

// formatValidationError reports the first failed constraint.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required_if":
			return fmt.Errorf("%s: field is required", field)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: %v is not one of %s", field, e.Value(), e.Param())
		case "hostname_port":
			return fmt.Errorf("%s: %v is not a host:port address", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
