package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
)

const envPrefix = "LEVYT_"

const DefaultFile = "levyt.toml"

type Config struct {
	DatabaseFile string `mapstructure:"database_file" toml:"database_file"`
	InputPattern string `mapstructure:"input_pattern" toml:"input_pattern"`

	// MissingValue is written in place of an absent track position or title.
	MissingValue string `mapstructure:"missing_value" toml:"missing_value"`

	OtlpEndpoint string `mapstructure:"otel_exporter_otlp_endpoint" toml:"otel_exporter_otlp_endpoint"`
}

func Default() *Config {
	return &Config{
		DatabaseFile: "levyt.sqlite",
		InputPattern: "discogs_*releases.xml",
		MissingValue: "None",
	}
}

// Load layers the config file named by LEVYT_CONFIG (or ./levyt.toml when it
// exists) and then the environment over the defaults.
func Load() (*Config, error) {
	return Resolve(os.Environ())
}

func Resolve(environ []string) (*Config, error) {
	cfg := Default()

	path, explicit := lookup(environ, envPrefix+"CONFIG")
	if !explicit {
		path = DefaultFile
	}

	if err := fromFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	if err := fromEnvironment(cfg, environ); err != nil {
		return nil, err
	}

	return cfg, nil
}

func FromEnvironment(environ []string) (*Config, error) {
	cfg := Default()

	if err := fromEnvironment(cfg, environ); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromFile(cfg *Config, path string, required bool) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

func fromEnvironment(cfg *Config, environ []string) error {
	values := map[string]string{}
	for _, pair := range environ {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}

		switch {
		case strings.HasPrefix(key, envPrefix):
			values[strings.ToLower(strings.TrimPrefix(key, envPrefix))] = value
		case key == "OTEL_EXPORTER_OTLP_ENDPOINT":
			values[strings.ToLower(key)] = value
		}
	}

	return mapstructure.Decode(values, cfg)
}

func lookup(environ []string, name string) (string, bool) {
	for _, pair := range environ {
		if key, value, found := strings.Cut(pair, "="); found && key == name {
			return value, true
		}
	}
	return "", false
}
