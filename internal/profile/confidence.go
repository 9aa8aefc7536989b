package profile

import "math"

// Dimension names one of the five profile dimensions.
type Dimension string

const (
	DimensionKnowledge     Dimension = "knowledge"
	DimensionCognitive     Dimension = "cognitive"
	DimensionMetacognitive Dimension = "metacognitive"
	DimensionMotivational  Dimension = "motivational"
	DimensionBehavioral    Dimension = "behavioral"
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{
	DimensionKnowledge,
	DimensionCognitive,
	DimensionMetacognitive,
	DimensionMotivational,
	DimensionBehavioral,
}

// Policy is a dimension's sample-size gate and confidence curve.
type Policy struct {
	MinSamples    int
	MaxConfidence float64
	Steepness     float64
}

// Policies holds the policy of every dimension. Knowledge and behavioral
// count all interactions, cognitive and metacognitive count practice
// attempts, motivational counts sessions.
var Policies = map[Dimension]Policy{
	DimensionKnowledge:     {MinSamples: 10, MaxConfidence: 0.95, Steepness: 0.5},
	DimensionCognitive:     {MinSamples: 5, MaxConfidence: 0.85, Steepness: 0.5},
	DimensionMetacognitive: {MinSamples: 5, MaxConfidence: 0.8, Steepness: 0.5},
	DimensionMotivational:  {MinSamples: 3, MaxConfidence: 0.8, Steepness: 0.5},
	DimensionBehavioral:    {MinSamples: 5, MaxConfidence: 0.9, Steepness: 0.5},
}

// MinFloor is the lowest confidence ever reported.
const MinFloor = 0.1

// Confidence returns the trust in a dimension computed from n samples: a
// logistic curve centred on MinSamples, floored at MinFloor and kept
// strictly below MaxConfidence.
func Confidence(n int, p Policy) float64 {
	c := p.MaxConfidence / (1 + math.Exp(-p.Steepness*float64(n-p.MinSamples)))
	c = math.Max(MinFloor, c)
	return math.Min(math.Nextafter(p.MaxConfidence, 0), c)
}

// ConfidenceScores holds the confidence of each dimension.
type ConfidenceScores struct {
	Knowledge     float64 `json:"knowledge"`
	Cognitive     float64 `json:"cognitive"`
	Metacognitive float64 `json:"metacognitive"`
	Motivational  float64 `json:"motivational"`
	Behavioral    float64 `json:"behavioral"`
}

// Get returns the score of one dimension.
func (c ConfidenceScores) Get(d Dimension) float64 {
	switch d {
	case DimensionKnowledge:
		return c.Knowledge
	case DimensionCognitive:
		return c.Cognitive
	case DimensionMetacognitive:
		return c.Metacognitive
	case DimensionMotivational:
		return c.Motivational
	case DimensionBehavioral:
		return c.Behavioral
	}
	return 0
}
