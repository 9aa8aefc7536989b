package profile

import (
	"fmt"
	"math"
	"sort"

	"github.com/abhisek/skillpath/internal/interaction"
	"gonum.org/v1/gonum/stat"
)

// HelpSeeking classifies how the learner asks for hints.
type HelpSeeking string

const (
	HelpSeekingAvoidant    HelpSeeking = "avoidant"
	HelpSeekingAppropriate HelpSeeking = "appropriate"
	HelpSeekingExcessive   HelpSeeking = "excessive"
	HelpSeekingUnknown     HelpSeeking = "unknown"
)

// Metacognitive thresholds.
const (
	MinCalibrationPairs = 5
	AvoidantHintRate    = 0.05
	ExcessiveHintRate   = 0.5
	QuickHintMs         = 5_000
	ExcessiveQuickRate  = 0.5
	ConfidentAtOrAbove  = 0.5
)

// MetacognitiveIndicators describes how well the learner judges their own
// knowledge.
type MetacognitiveIndicators struct {
	CalibrationAccuracy *float64    `json:"calibration_accuracy"`
	HelpSeeking         HelpSeeking `json:"help_seeking_pattern"`
	HintRate            *float64    `json:"hint_rate"`
	QuickHintRate       *float64    `json:"quick_hint_rate"`
	OverconfidenceRate  *float64    `json:"overconfidence_rate"`
	UnderconfidenceRate *float64    `json:"underconfidence_rate"`
	RatingsPaired       int         `json:"ratings_paired"`
}

// calibrationPair is a confidence rating matched with an outcome.
type calibrationPair struct {
	confidence float64
	correct    bool
}

// Metacognitive computes the metacognitive dimension.
func Metacognitive(w Window) (MetacognitiveIndicators, []string) {
	m := MetacognitiveIndicators{HelpSeeking: HelpSeekingUnknown}
	var warnings []string

	attempts := w.attempts()
	need := Policies[DimensionMetacognitive].MinSamples
	if len(attempts) < need {
		warnings = append(warnings, fmt.Sprintf("metacognitive: %d practice attempts, need %d; indicators unknown", len(attempts), need))
		return m, warnings
	}

	assisted := 0
	for _, a := range attempts {
		if a.assisted {
			assisted++
		}
	}
	m.HintRate = ratio(assisted, len(attempts))

	hints, _ := interaction.Hints(w.sorted())
	timed, quick := 0, 0
	for _, h := range hints {
		if h.TimeBeforeHintMs == nil {
			continue
		}
		timed++
		if *h.TimeBeforeHintMs < QuickHintMs {
			quick++
		}
	}
	m.QuickHintRate = ratio(quick, timed)

	switch {
	case *m.HintRate < AvoidantHintRate:
		m.HelpSeeking = HelpSeekingAvoidant
	case *m.HintRate > ExcessiveHintRate,
		m.QuickHintRate != nil && *m.QuickHintRate > ExcessiveQuickRate:
		m.HelpSeeking = HelpSeekingExcessive
	default:
		m.HelpSeeking = HelpSeekingAppropriate
	}

	pairs := pairRatings(w, attempts)
	m.RatingsPaired = len(pairs)
	if len(pairs) < MinCalibrationPairs {
		warnings = append(warnings, fmt.Sprintf("metacognitive: %d paired confidence ratings, need %d; calibration unknown", len(pairs), MinCalibrationPairs))
		return m, warnings
	}

	conf := make([]float64, len(pairs))
	outcome := make([]float64, len(pairs))
	var confidentTotal, confidentWrong, unsureTotal, unsureRight int
	for i, p := range pairs {
		conf[i] = p.confidence
		if p.correct {
			outcome[i] = 1
		}
		if p.confidence >= ConfidentAtOrAbove {
			confidentTotal++
			if !p.correct {
				confidentWrong++
			}
		} else {
			unsureTotal++
			if p.correct {
				unsureRight++
			}
		}
	}
	if r := stat.Correlation(conf, outcome, nil); !math.IsNaN(r) {
		m.CalibrationAccuracy = ptr(r)
	} else {
		warnings = append(warnings, "metacognitive: confidence or outcomes never vary; calibration unknown")
	}
	m.OverconfidenceRate = ratio(confidentWrong, confidentTotal)
	m.UnderconfidenceRate = ratio(unsureRight, unsureTotal)
	return m, warnings
}

// pairRatings matches each confidence rating with an outcome: the rating's
// own actualOutcome when present, otherwise the next practice attempt on
// the same skill at or after the rating.
func pairRatings(w Window, attempts []attempt) []calibrationPair {
	ratings, _ := interaction.Ratings(w.sorted())
	bySkill := map[string][]attempt{}
	for _, a := range attempts {
		bySkill[a.SkillID] = append(bySkill[a.SkillID], a)
	}
	var pairs []calibrationPair
	for _, r := range ratings {
		c := r.Normalized()
		if c == nil {
			continue
		}
		if r.ActualOutcome != nil {
			pairs = append(pairs, calibrationPair{confidence: *c, correct: *r.ActualOutcome})
			continue
		}
		list := bySkill[r.SkillID]
		i := sort.Search(len(list), func(i int) bool { return !list[i].At.Before(r.At) })
		if i < len(list) {
			pairs = append(pairs, calibrationPair{confidence: *c, correct: list[i].IsCorrect})
		}
	}
	return pairs
}
