package skillgraph

import "fmt"

// Strength describes how strongly a prerequisite gates its dependent skill.
type Strength string

const (
	StrengthRequired    Strength = "required"
	StrengthRecommended Strength = "recommended"
	StrengthHelpful     Strength = "helpful"
)

// Valid reports whether s is one of the known strengths.
func (s Strength) Valid() bool {
	switch s {
	case StrengthRequired, StrengthRecommended, StrengthHelpful:
		return true
	}
	return false
}

// BloomLevel is the cognitive level of a skill in Bloom's revised taxonomy (1-6).
type BloomLevel int

const (
	BloomRemember BloomLevel = iota + 1
	BloomUnderstand
	BloomApply
	BloomAnalyze
	BloomEvaluate
	BloomCreate
)

// Label returns the display label for a Bloom level.
func (b BloomLevel) Label() string {
	switch b {
	case BloomRemember:
		return "Remember"
	case BloomUnderstand:
		return "Understand"
	case BloomApply:
		return "Apply"
	case BloomAnalyze:
		return "Analyze"
	case BloomEvaluate:
		return "Evaluate"
	case BloomCreate:
		return "Create"
	default:
		return fmt.Sprintf("Bloom(%d)", int(b))
	}
}

// BloomBand groups Bloom levels into lower-order and higher-order thinking.
type BloomBand string

const (
	BandLowerOrder  BloomBand = "lower_order"
	BandMiddleOrder BloomBand = "middle_order"
	BandHigherOrder BloomBand = "higher_order"
)

// bloomBands is the boundary table for BandOf. Each entry covers levels up
// to and including MaxLevel.
var bloomBands = []struct {
	MaxLevel BloomLevel
	Band     BloomBand
}{
	{BloomUnderstand, BandLowerOrder},
	{BloomAnalyze, BandMiddleOrder},
	{BloomCreate, BandHigherOrder},
}

// BandOf returns the band for a Bloom level. Levels above Create are
// treated as higher-order; levels below Remember as lower-order.
func BandOf(b BloomLevel) BloomBand {
	for _, entry := range bloomBands {
		if b <= entry.MaxLevel {
			return entry.Band
		}
	}
	return BandHigherOrder
}

// IRTParams holds item-response-theory parameters for a skill's items.
type IRTParams struct {
	Discrimination float64 `json:"discrimination" yaml:"discrimination"`
	Difficulty     float64 `json:"difficulty" yaml:"difficulty"`
	Guessing       float64 `json:"guessing" yaml:"guessing"`
}

// SkillParams are skill-specific knowledge-tracing parameters. They are only
// used when skill-specific parameters are enabled in configuration.
type SkillParams struct {
	PL0 float64 `json:"pl0" yaml:"pl0"`
	PT  float64 `json:"pt" yaml:"pt"`
	PS  float64 `json:"ps" yaml:"ps"`
	PG  float64 `json:"pg" yaml:"pg"`
}

// SkillNode is a single skill in a notebook's knowledge graph.
type SkillNode struct {
	ID                 string       `json:"id" yaml:"id"`
	NotebookID         string       `json:"notebook_id" yaml:"notebook_id"`
	Name               string       `json:"name" yaml:"name"`
	BloomLevel         BloomLevel   `json:"bloom_level" yaml:"bloom_level"`
	Difficulty         float64      `json:"difficulty" yaml:"difficulty"`
	IsThresholdConcept bool         `json:"is_threshold_concept" yaml:"is_threshold_concept"`
	IRT                *IRTParams   `json:"irt,omitempty" yaml:"irt,omitempty"`
	BKT                *SkillParams `json:"bkt,omitempty" yaml:"bkt,omitempty"`
}

// DisplayName returns the skill name, falling back to its ID.
func (s SkillNode) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Prerequisite is a directed edge: FromSkillID must be learned before ToSkillID.
type Prerequisite struct {
	FromSkillID string   `json:"from_skill_id" yaml:"from"`
	ToSkillID   string   `json:"to_skill_id" yaml:"to"`
	Strength    Strength `json:"strength" yaml:"strength"`
}
