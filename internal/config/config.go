// Package config loads skillpath settings from defaults, skillpath.yml and
// SKILLPATH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/abhisek/skillpath/internal/mastery"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SKILLPATH_"

	// DefaultFile is the config file name looked up in the working directory.
	DefaultFile = "skillpath.yml"
)

// envSections lists nested sections, longest first, so that
// SKILLPATH_GRAPH_NEO4J_URI maps to graph.neo4j.uri.
var envSections = []string{
	"graph_neo4j", "bkt", "mastery", "scaffold", "review",
	"profile", "cohort", "graph", "server", "log",
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range envSections {
		if rest, ok := strings.CutPrefix(key, sec+"_"); ok {
			return strings.ReplaceAll(sec, "_", ".") + "." + rest
		}
	}
	return key
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// ValidationError names the configuration field that failed validation.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if err := c.MasteryConfig().Validate(); err != nil {
		var pe *mastery.ParamError
		if errors.As(err, &pe) {
			field := "bkt.default_" + pe.Field
			if strings.HasPrefix(pe.Field, "threshold") {
				field = "mastery." + pe.Field
			}
			return &ValidationError{Field: field, Msg: fmt.Sprintf("must be in [0,1], got %g", pe.Value), Err: err}
		}
		return err
	}

	if n := len(c.Scaffold.Thresholds); n != 3 {
		return invalid("scaffold.thresholds", "must have 3 values, got %d", n)
	}
	if err := c.ScaffoldThresholds().Validate(); err != nil {
		return &ValidationError{Field: "scaffold.thresholds", Msg: err.Error(), Err: err}
	}

	if c.Review.FastResponseMs <= 0 {
		return invalid("review.fast_response_ms", "must be positive, got %d", c.Review.FastResponseMs)
	}
	if c.Profile.WindowDays < 0 {
		return invalid("profile.window_days", "must be non-negative, got %d", c.Profile.WindowDays)
	}
	if c.Profile.MaxInteractions < 0 {
		return invalid("profile.max_interactions", "must be non-negative, got %d", c.Profile.MaxInteractions)
	}
	if c.Profile.KeepVersions < 1 {
		return invalid("profile.keep_versions", "must be at least 1, got %d", c.Profile.KeepVersions)
	}
	if c.Cohort.Concurrency < 1 {
		return invalid("cohort.concurrency", "must be at least 1, got %d", c.Cohort.Concurrency)
	}

	switch c.Graph.Source {
	case GraphSourceStore:
	case GraphSourceNeo4j:
		if c.Graph.Neo4j.URI == "" {
			return invalid("graph.neo4j.uri", "is required when graph.source is neo4j")
		}
	default:
		return invalid("graph.source", "must be one of store, neo4j, got %q", c.Graph.Source)
	}
	if c.Graph.CacheSize < 1 {
		return invalid("graph.cache_size", "must be at least 1, got %d", c.Graph.CacheSize)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", "must be in [0,65535], got %d", c.Server.Port)
	}
	return nil
}

// DBPath resolves the database file path in priority order:
//  1. the explicit flag value
//  2. the db setting (file or SKILLPATH_DB)
//  3. $XDG_DATA_HOME/skillpath/skillpath.db
//  4. ~/.local/share/skillpath/skillpath.db
//
// The parent directory is created if needed.
func (c *Config) DBPath(flag string) (string, error) {
	for _, p := range []string{flag, c.DB} {
		if p != "" {
			return p, ensureDir(p)
		}
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "skillpath", "skillpath.db")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
