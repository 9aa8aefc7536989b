package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Mastery.Threshold != 0.8 {
		t.Errorf("mastery.threshold = %v, want 0.8", cfg.Mastery.Threshold)
	}
	if cfg.Graph.Source != GraphSourceStore {
		t.Errorf("graph.source = %q, want %q", cfg.Graph.Source, GraphSourceStore)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillpath.yml")

	original := DefaultConfig()
	original.BKT.DefaultPT = 0.15
	original.BKT.UseSkillSpecific = true
	original.Scaffold.Thresholds = []float64{0.25, 0.5, 0.75}
	original.Cohort.Concurrency = 3
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.15, loaded.BKT.DefaultPT)
	assert.True(t, loaded.BKT.UseSkillSpecific)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, loaded.Scaffold.Thresholds)
	assert.Equal(t, 3, loaded.Cohort.Concurrency)
	assert.Equal(t, original.Mastery, loaded.Mastery)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BKT, cfg.BKT)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKILLPATH_BKT_DEFAULT_PT", "0.25")
	t.Setenv("SKILLPATH_GRAPH_NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("SKILLPATH_DB", "/tmp/sp.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.BKT.DefaultPT)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Graph.Neo4j.URI)
	assert.Equal(t, "/tmp/sp.db", cfg.DB)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SKILLPATH_BKT_DEFAULT_PS":       "bkt.default_ps",
		"SKILLPATH_GRAPH_NEO4J_PASSWORD": "graph.neo4j.password",
		"SKILLPATH_GRAPH_SOURCE":         "graph.source",
		"SKILLPATH_DB":                   "db",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateNamesField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"slip", func(c *Config) { c.BKT.DefaultPS = 1.2 }, "bkt.default_ps"},
		{"prior", func(c *Config) { c.BKT.DefaultPL0 = -0.1 }, "bkt.default_pl0"},
		{"threshold", func(c *Config) { c.Mastery.Threshold = 0 }, "mastery.threshold"},
		{"scaffold order", func(c *Config) { c.Scaffold.Thresholds = []float64{0.5, 0.3, 0.7} }, "scaffold.thresholds"},
		{"scaffold length", func(c *Config) { c.Scaffold.Thresholds = []float64{0.5} }, "scaffold.thresholds"},
		{"fast response", func(c *Config) { c.Review.FastResponseMs = 0 }, "review.fast_response_ms"},
		{"concurrency", func(c *Config) { c.Cohort.Concurrency = 0 }, "cohort.concurrency"},
		{"graph source", func(c *Config) { c.Graph.Source = "redis" }, "graph.source"},
		{"neo4j uri", func(c *Config) { c.Graph.Source = GraphSourceNeo4j }, "graph.neo4j.uri"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q (%v)", ve.Field, tt.field, err)
			}
		})
	}
}

func TestValidateMessage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BKT.DefaultPS = 1.2
	assert.EqualError(t, cfg.Validate(), "bkt.default_ps must be in [0,1], got 1.2")
}

func TestDBPath(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()

	flag := filepath.Join(dir, "flag", "a.db")
	got, err := cfg.DBPath(flag)
	require.NoError(t, err)
	assert.Equal(t, flag, got)
	_, err = os.Stat(filepath.Dir(flag))
	assert.NoError(t, err)

	cfg.DB = filepath.Join(dir, "cfg", "b.db")
	got, err = cfg.DBPath("")
	require.NoError(t, err)
	assert.Equal(t, cfg.DB, got)

	cfg.DB = ""
	t.Setenv("XDG_DATA_HOME", dir)
	got, err = cfg.DBPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "skillpath", "skillpath.db"), got)
}
