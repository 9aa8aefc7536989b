package config

// Config is the top-level skillpath configuration, corresponding to skillpath.yml.
type Config struct {
	DB       string         `yaml:"db,omitempty" koanf:"db"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
	BKT      BKTConfig      `yaml:"bkt" koanf:"bkt"`
	Mastery  MasteryConfig  `yaml:"mastery" koanf:"mastery"`
	Scaffold ScaffoldConfig `yaml:"scaffold" koanf:"scaffold"`
	Review   ReviewConfig   `yaml:"review" koanf:"review"`
	Profile  ProfileConfig  `yaml:"profile" koanf:"profile"`
	Cohort   CohortConfig   `yaml:"cohort" koanf:"cohort"`
	Graph    GraphConfig    `yaml:"graph" koanf:"graph"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
}

// LogConfig selects logger output.
type LogConfig struct {
	Mode    string `yaml:"mode" koanf:"mode"`
	Level   string `yaml:"level" koanf:"level"`
	HashIDs bool   `yaml:"hash_ids" koanf:"hash_ids"`
	Salt    string `yaml:"salt,omitempty" koanf:"salt"`
}

// BKTConfig holds the global knowledge-tracing parameters.
type BKTConfig struct {
	UseSkillSpecific bool    `yaml:"use_skill_specific" koanf:"use_skill_specific"`
	DefaultPL0       float64 `yaml:"default_pl0" koanf:"default_pl0"`
	DefaultPT        float64 `yaml:"default_pt" koanf:"default_pt"`
	DefaultPS        float64 `yaml:"default_ps" koanf:"default_ps"`
	DefaultPG        float64 `yaml:"default_pg" koanf:"default_pg"`
}

// MasteryConfig holds the mastery thresholds.
type MasteryConfig struct {
	Threshold        float64 `yaml:"threshold" koanf:"threshold"`
	ThresholdConcept float64 `yaml:"threshold_concept" koanf:"threshold_concept"`
}

// ScaffoldConfig holds the three scaffold level boundaries.
type ScaffoldConfig struct {
	Thresholds []float64 `yaml:"thresholds" koanf:"thresholds"`
}

// ReviewConfig tunes the review scheduler.
type ReviewConfig struct {
	FastResponseMs int64 `yaml:"fast_response_ms" koanf:"fast_response_ms"`
}

// ProfileConfig bounds the interaction window read for a profile.
type ProfileConfig struct {
	WindowDays      int `yaml:"window_days" koanf:"window_days"`
	MaxInteractions int `yaml:"max_interactions" koanf:"max_interactions"`
	KeepVersions    int `yaml:"keep_versions" koanf:"keep_versions"`
}

// CohortConfig tunes the cohort overview.
type CohortConfig struct {
	Concurrency int `yaml:"concurrency" koanf:"concurrency"`
}

// Graph sources.
const (
	GraphSourceStore = "store"
	GraphSourceNeo4j = "neo4j"
)

// GraphConfig selects where skill graphs are read from.
type GraphConfig struct {
	Source    string      `yaml:"source" koanf:"source"`
	CacheSize int         `yaml:"cache_size" koanf:"cache_size"`
	Neo4j     Neo4jConfig `yaml:"neo4j" koanf:"neo4j"`
}

// Neo4jConfig holds the connection settings of a Neo4j knowledge graph.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty" koanf:"uri"`
	User     string `yaml:"user,omitempty" koanf:"user"`
	Password string `yaml:"password,omitempty" koanf:"password"`
	Database string `yaml:"database,omitempty" koanf:"database"`
}

// ServerConfig configures the read API.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
}
