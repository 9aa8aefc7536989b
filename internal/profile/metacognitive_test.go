package profile

import (
	"testing"

	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetacognitive_CalibrationFromOutcomes(t *testing.T) {
	var is []interaction.Interaction
	at := monday
	ratings := []struct {
		r       int
		outcome bool
	}{{5, true}, {5, true}, {4, true}, {2, false}, {1, false}, {1, true}}
	for _, x := range ratings {
		is = append(is, rating(t, "a", x.r, boolPtr(x.outcome), at))
		is = append(is, practice(t, "a", x.outcome, at.Add(minutes(1))))
		at = at.Add(minutes(5))
	}

	m, warnings := Metacognitive(Window{Interactions: is})
	assert.Empty(t, warnings)
	assert.Equal(t, 6, m.RatingsPaired)
	require.NotNil(t, m.CalibrationAccuracy)
	assert.InDelta(t, 0.6123724356957945, *m.CalibrationAccuracy, 1e-9)
	require.NotNil(t, m.OverconfidenceRate)
	assert.InDelta(t, 0, *m.OverconfidenceRate, 1e-9)
	require.NotNil(t, m.UnderconfidenceRate)
	assert.InDelta(t, 1.0/3, *m.UnderconfidenceRate, 1e-9)
	assert.Equal(t, HelpSeekingAvoidant, m.HelpSeeking)
}

func TestMetacognitive_PairsWithNextAttempt(t *testing.T) {
	var is []interaction.Interaction
	at := monday
	for i := 0; i < 5; i++ {
		is = append(is, rating(t, "a", 5, nil, at))
		is = append(is, practice(t, "a", i%2 == 0, at.Add(minutes(1))))
		at = at.Add(minutes(5))
	}
	m, warnings := Metacognitive(Window{Interactions: is})
	assert.Equal(t, 5, m.RatingsPaired)
	assert.Nil(t, m.CalibrationAccuracy, "constant confidence has no correlation")
	assert.Contains(t, warnings, "metacognitive: confidence or outcomes never vary; calibration unknown")
	require.NotNil(t, m.OverconfidenceRate)
	assert.InDelta(t, 0.4, *m.OverconfidenceRate, 1e-9)
	assert.Nil(t, m.UnderconfidenceRate)
}

func TestMetacognitive_ExcessiveHints(t *testing.T) {
	var is []interaction.Interaction
	at := monday
	for i := 0; i < 5; i++ {
		if i < 3 {
			is = append(is, hint(t, "a", 2000, at))
		}
		is = append(is, practice(t, "a", true, at.Add(minutes(1))))
		at = at.Add(minutes(5))
	}
	m, _ := Metacognitive(Window{Interactions: is})
	assert.Equal(t, HelpSeekingExcessive, m.HelpSeeking)
	require.NotNil(t, m.QuickHintRate)
	assert.InDelta(t, 1.0, *m.QuickHintRate, 1e-9)
}

func TestMetacognitive_QuickHintsAloneAreExcessive(t *testing.T) {
	var is []interaction.Interaction
	at := monday
	for i := 0; i < 10; i++ {
		if i < 2 {
			is = append(is, hint(t, "a", 1000, at))
		}
		is = append(is, practice(t, "a", true, at.Add(minutes(1))))
		at = at.Add(minutes(5))
	}
	m, _ := Metacognitive(Window{Interactions: is})
	require.NotNil(t, m.HintRate)
	assert.InDelta(t, 0.2, *m.HintRate, 1e-9)
	assert.Equal(t, HelpSeekingExcessive, m.HelpSeeking)
}

func TestMetacognitive_AppropriateHints(t *testing.T) {
	var is []interaction.Interaction
	at := monday
	for i := 0; i < 10; i++ {
		if i < 2 {
			is = append(is, hint(t, "a", 20000, at))
		}
		is = append(is, practice(t, "a", true, at.Add(minutes(1))))
		at = at.Add(minutes(5))
	}
	m, _ := Metacognitive(Window{Interactions: is})
	assert.Equal(t, HelpSeekingAppropriate, m.HelpSeeking)
}
