// Package config loads the server configuration from a YAML file with
// environment variable overrides for deploy-time secrets.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the linkscope-server configuration
type Config struct {
	Listen   string `yaml:"listen" validate:"required"`
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Auth struct {
		// JWTSecret signs and verifies API tokens; empty disables auth
		JWTSecret string `yaml:"jwtSecret"`
	} `yaml:"auth"`
	Cache struct {
		MaxPayloads int `yaml:"maxPayloads" validate:"omitempty,min=1"`
	} `yaml:"cache"`
	Archive struct {
		Bucket string `yaml:"bucket"`
		Prefix string `yaml:"prefix"`
		Region string `yaml:"region"`
		// Endpoint switches to path-style addressing (MinIO and similar)
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
	} `yaml:"archive"`
	FocusBus struct {
		// Listen address for the focus request publisher, e.g.
		// tcp://127.0.0.1:40895; empty disables the bus
		Listen string `yaml:"listen"`
	} `yaml:"focusBus"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{Listen: ":8080"}
	cfg.Cache.MaxPayloads = 16
	return cfg
}

// Load reads, overrides and validates a config file
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LINKSCOPE_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("LINKSCOPE_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("LINKSCOPE_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("LINKSCOPE_ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("LINKSCOPE_ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("LINKSCOPE_ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("LINKSCOPE_FOCUS_LISTEN"); v != "" {
		cfg.FocusBus.Listen = v
	}
}
