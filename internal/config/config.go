package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/metro-go/internal/models"
)

// DefaultPort is used when neither the file nor the environment sets one
const DefaultPort = 8080

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// CityConfig describes where one city's dataset comes from
type CityConfig struct {
	ID     string `yaml:"id" validate:"required"`
	Format string `yaml:"format" validate:"required,oneof=embedded json yaml gtfs snapshot"`
	Path   string `yaml:"path" validate:"required_unless=Format embedded"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Cities []CityConfig `yaml:"cities" validate:"dive"`
}

// Default returns the configuration used when no file is given:
// both embedded cities on the default port.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: DefaultPort},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads .env files, the YAML file at path (skipped when empty), applies
// METRO_* environment overrides and validates the result.
func Load(path string, envFiles ...string) (AppConfig, error) {
	// .env files are optional
	_ = godotenv.Load(envFiles...)

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks struct tags on cfg and rejects duplicate city ids.
// Ids are compared the way the store matches them, so "spb" and "SPB" collide.
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[models.City]bool, len(cfg.Cities))
	for _, c := range cfg.Cities {
		id := models.NormalizeCity(models.City(c.ID))
		if seen[id] {
			return fmt.Errorf("invalid config: duplicate city %q", c.ID)
		}
		seen[id] = true
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	if port := os.Getenv("METRO_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("METRO_PORT: %w", err)
		}
		cfg.Server.Port = p
	}
	if level := os.Getenv("METRO_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	return nil
}
