package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence_MonotoneAndBelowMax(t *testing.T) {
	for _, d := range Dimensions {
		p := Policies[d]
		prev := 0.0
		for n := 0; n <= 2000; n++ {
			c := Confidence(n, p)
			if c < prev {
				t.Fatalf("%s: confidence decreased at n=%d (%v < %v)", d, n, c, prev)
			}
			if c >= p.MaxConfidence {
				t.Fatalf("%s: confidence %v reached max %v at n=%d", d, c, p.MaxConfidence, n)
			}
			prev = c
		}
	}
}

func TestConfidence_Shape(t *testing.T) {
	k := Policies[DimensionKnowledge]
	assert.Equal(t, MinFloor, Confidence(0, k), "little data floors at the minimum")
	assert.InDelta(t, k.MaxConfidence/2, Confidence(k.MinSamples, k), 1e-12)

	c := Policies[DimensionCognitive]
	assert.InDelta(t, 0.425, Confidence(5, c), 1e-12)
	assert.Greater(t, Confidence(20, c), 0.8)
}

func TestConfidenceScoresGet(t *testing.T) {
	s := ConfidenceScores{Knowledge: 0.1, Cognitive: 0.2, Metacognitive: 0.3, Motivational: 0.4, Behavioral: 0.5}
	assert.Equal(t, 0.3, s.Get(DimensionMetacognitive))
	assert.Equal(t, 0.0, s.Get("other"))
}
