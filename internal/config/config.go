// Package config loads the tool configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/mickamy/ormassoc/assoc"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "ORMASSOC_"

// Config is the root configuration.
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Snapshot     string             `yaml:"snapshot" env:"ORMASSOC_SNAPSHOT"`
	Associations AssociationsConfig `yaml:"associations"`
	Log          LogConfig          `yaml:"log"`
}

// DatabaseConfig selects the database to introspect.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"ORMASSOC_DRIVER" env-default:"postgres"`
	Schema string `yaml:"schema" env:"ORMASSOC_SCHEMA"`
	DSN    string `yaml:"-" env:"ORMASSOC_DSN"` // Secret - not in YAML
}

// AssociationsConfig mirrors assoc.Options. Fields defaulting to a
// non-zero value are seeded by Default, since env-default would also
// override an explicit false or empty list from the file.
type AssociationsConfig struct {
	AutoCreate         bool     `yaml:"auto_create" env:"ORMASSOC_AUTO_CREATE"`
	ConciseNames       bool     `yaml:"concise_names" env:"ORMASSOC_CONCISE_NAMES" env-default:"false"`
	Only               []string `yaml:"only" env:"ORMASSOC_ONLY" env-separator:","`
	Except             []string `yaml:"except" env:"ORMASSOC_EXCEPT" env-separator:","`
	OnlyKinds          []string `yaml:"only_kinds" env:"ORMASSOC_ONLY_KINDS" env-separator:","`
	ExceptKinds        []string `yaml:"except_kinds" env:"ORMASSOC_EXCEPT_KINDS" env-separator:","`
	Overridable        []string `yaml:"overridable" env:"ORMASSOC_OVERRIDABLE" env-separator:","`
	UniversalAccessors []string `yaml:"universal_accessors" env:"ORMASSOC_UNIVERSAL_ACCESSORS" env-separator:","`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" env:"ORMASSOC_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"ORMASSOC_LOG_DEVELOPMENT" env-default:"false"`
}

// Default returns the configuration before the file and environment are
// applied.
func Default() *Config {
	return &Config{
		Associations: AssociationsConfig{
			AutoCreate:         true,
			Overridable:        []string{"type"},
			UniversalAccessors: []string{"type"},
		},
	}
}

// Load reads path when it is non-empty, then applies environment overrides.
// A missing file is an error; an empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the section into discovery options. Kind names are
// validated.
func (c AssociationsConfig) Options() (assoc.Options, error) {
	onlyKinds, err := assoc.ParseKinds(c.OnlyKinds)
	if err != nil {
		return assoc.Options{}, fmt.Errorf("only_kinds: %w", err)
	}
	exceptKinds, err := assoc.ParseKinds(c.ExceptKinds)
	if err != nil {
		return assoc.Options{}, fmt.Errorf("except_kinds: %w", err)
	}
	return assoc.Options{
		AutoCreate:   c.AutoCreate,
		ConciseNames: c.ConciseNames,
		Policy: assoc.Policy{
			Only:        c.Only,
			Except:      c.Except,
			OnlyKinds:   onlyKinds,
			ExceptKinds: exceptKinds,
		},
		Overridable: c.Overridable,
	}, nil
}

// ErrNoSource is returned by Validate when neither a DSN nor a snapshot is
// configured.
var ErrNoSource = errors.New("config: set a DSN or a snapshot")

// Validate checks that a schema source is configured.
func (c *Config) Validate() error {
	if c.Database.DSN == "" && c.Snapshot == "" {
		return ErrNoSource
	}
	return nil
}
