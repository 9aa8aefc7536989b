package mastery

import (
	"fmt"

	"github.com/abhisek/skillpath/internal/skillgraph"
)

// Default mastery thresholds.
const (
	DefaultThreshold        = 0.8
	DefaultThresholdConcept = 0.9
)

// Params are the four Bayesian Knowledge Tracing parameters.
type Params struct {
	PL0 float64 `json:"pl0"` // prior probability of mastery
	PT  float64 `json:"pt"`  // probability of learning per attempt
	PS  float64 `json:"ps"`  // slip
	PG  float64 `json:"pg"`  // guess
}

// DefaultParams returns the global default parameters.
func DefaultParams() Params {
	return Params{PL0: 0.3, PT: 0.1, PS: 0.1, PG: 0.2}
}

// ParamError reports a knowledge-tracing parameter outside [0, 1].
type ParamError struct {
	Field string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s must be in [0,1], got %g", e.Field, e.Value)
}

// Validate returns a *ParamError naming the first out-of-range field.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{{"pl0", p.PL0}, {"pt", p.PT}, {"ps", p.PS}, {"pg", p.PG}}
	for _, f := range fields {
		// NaN fails both comparisons, so test the accepted range directly.
		if !(f.v >= 0 && f.v <= 1) {
			return &ParamError{Field: f.name, Value: f.v}
		}
	}
	return nil
}

// Config selects parameters and thresholds for a notebook.
type Config struct {
	UseSkillSpecific bool
	Defaults         Params
	Threshold        float64
	ThresholdConcept float64
}

// DefaultConfig returns the configuration used when a notebook has no settings.
func DefaultConfig() Config {
	return Config{
		Defaults:         DefaultParams(),
		Threshold:        DefaultThreshold,
		ThresholdConcept: DefaultThresholdConcept,
	}
}

// Validate checks the default parameters and both thresholds.
func (c Config) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return err
	}
	if !(c.Threshold > 0 && c.Threshold <= 1) {
		return &ParamError{Field: "threshold", Value: c.Threshold}
	}
	if !(c.ThresholdConcept > 0 && c.ThresholdConcept <= 1) {
		return &ParamError{Field: "threshold_concept", Value: c.ThresholdConcept}
	}
	return nil
}

// ParamsFor returns the parameters to use for a skill. Skill-specific values
// apply only when enabled. A skill without its own BKT block but with IRT
// parameters takes its guess probability from the IRT guessing parameter.
func (c Config) ParamsFor(skill skillgraph.SkillNode) Params {
	p := c.Defaults
	if !c.UseSkillSpecific {
		return p
	}
	switch {
	case skill.BKT != nil:
		p = Params{PL0: skill.BKT.PL0, PT: skill.BKT.PT, PS: skill.BKT.PS, PG: skill.BKT.PG}
	case skill.IRT != nil && skill.IRT.Guessing > 0 && skill.IRT.Guessing <= 1:
		p.PG = skill.IRT.Guessing
	}
	return p
}

// ThresholdFor returns the mastery threshold for a skill.
func (c Config) ThresholdFor(skill skillgraph.SkillNode) float64 {
	if skill.IsThresholdConcept {
		return c.ThresholdConcept
	}
	return c.Threshold
}
