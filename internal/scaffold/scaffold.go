// Package scaffold maps a learner's mastery probability to a support level.
// Lower mastery gets more support; support fades as mastery grows.
package scaffold

import (
	"fmt"
	"sort"
)

// Level is a support tier from 1 (most support) to 4 (independent practice).
type Level int

const (
	LevelWorkedExamples Level = iota + 1
	LevelFadedExamples
	LevelHints
	LevelIndependent
)

// Support describes what the learner is offered at a level.
type Support string

const (
	SupportWorkedExamples Support = "worked_examples"
	SupportFadedExamples  Support = "faded_examples"
	SupportHints          Support = "hints"
	SupportNone           Support = "none"
)

// Support returns the kind of support offered at this level.
func (l Level) Support() Support {
	switch l {
	case LevelWorkedExamples:
		return SupportWorkedExamples
	case LevelFadedExamples:
		return SupportFadedExamples
	case LevelHints:
		return SupportHints
	default:
		return SupportNone
	}
}

// Label returns the display label for a level.
func (l Level) Label() string {
	switch l {
	case LevelWorkedExamples:
		return "Worked examples"
	case LevelFadedExamples:
		return "Faded examples"
	case LevelHints:
		return "Hints on request"
	case LevelIndependent:
		return "Independent"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= LevelWorkedExamples && l <= LevelIndependent
}

// Thresholds are the lower mastery bounds of levels 2, 3 and 4. A mastery
// probability below Thresholds[0] maps to level 1. Each boundary is
// inclusive on its lower side.
type Thresholds [3]float64

// DefaultThresholds returns the default support-fading boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{0.3, 0.5, 0.7}
}

// Validate checks that the boundaries are strictly increasing and inside (0, 1].
func (t Thresholds) Validate() error {
	for i, v := range t {
		if !(v > 0 && v <= 1) {
			return fmt.Errorf("scaffold threshold %d must be in (0, 1], got %g", i, v)
		}
		if i > 0 && v <= t[i-1] {
			return fmt.Errorf("scaffold thresholds must be strictly increasing, got %v", [3]float64(t))
		}
	}
	return nil
}

// Level returns the support level for a mastery probability.
func (t Thresholds) Level(pMastery float64) Level {
	// Index of the first boundary strictly greater than pMastery equals the
	// number of boundaries already reached.
	reached := sort.SearchFloat64s(t[:], pMastery)
	if reached < len(t) && t[reached] == pMastery {
		reached++
	}
	return Level(reached + 1)
}
