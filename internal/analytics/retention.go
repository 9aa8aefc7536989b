package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/spacedrep"
	"gonum.org/v1/gonum/stat"
)

// Retention thresholds.
const (
	RetentionReviewBelow = 0.8
	StabilityPerEase     = 10.0
)

// RetentionMetrics describes how well a mastered skill has been retained.
type RetentionMetrics struct {
	SkillID            string     `json:"skill_id"`
	InitialMastery     float64    `json:"initial_mastery"`
	CurrentMastery     float64    `json:"current_mastery"`
	RetentionRate      *float64   `json:"retention_rate"`
	DaysElapsed        float64    `json:"days_elapsed"`
	Stability          float64    `json:"stability"`
	PredictedRetention float64    `json:"predicted_retention"`
	NextReviewAt       *time.Time `json:"next_review_at,omitempty"`
	MissedReview       bool       `json:"missed_review"`
	NeedsReview        bool       `json:"needs_review"`
}

// PredictedRetention is the exponential forgetting curve e^(-t/S) with
// stability S = easeFactor * StabilityPerEase, for t in days.
func PredictedRetention(days, easeFactor float64) float64 {
	if easeFactor <= 0 {
		easeFactor = spacedrep.InitialEaseFactor
	}
	return math.Exp(-days / (easeFactor * StabilityPerEase))
}

// SkillRetention measures retention of one skill. The initial mastery is
// the first history point at or above the skill's threshold, or the peak
// point when the threshold was never reached. ok is false when the skill
// has no history.
func SkillRetention(state mastery.LearnerSkillState, history []MasteryPoint, now time.Time) (m RetentionMetrics, ok bool) {
	var pts []MasteryPoint
	for _, p := range history {
		if p.SkillID == state.SkillID {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return RetentionMetrics{}, false
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].RecordedAt.Before(pts[j].RecordedAt) })

	initial := pts[0]
	found := false
	for _, p := range pts {
		if p.PMastery >= state.MasteryThreshold {
			initial, found = p, true
			break
		}
	}
	if !found {
		for _, p := range pts {
			if p.PMastery > initial.PMastery {
				initial = p
			}
		}
	}

	m = RetentionMetrics{
		SkillID:        state.SkillID,
		InitialMastery: initial.PMastery,
		CurrentMastery: state.PMastery,
		DaysElapsed:    math.Max(0, now.Sub(initial.RecordedAt).Hours()/24),
		Stability:      state.Review.EaseFactor * StabilityPerEase,
		NextReviewAt:   state.Review.NextReviewAt,
	}
	if m.Stability <= 0 {
		m.Stability = spacedrep.InitialEaseFactor * StabilityPerEase
	}
	if initial.PMastery > 0 {
		r := state.PMastery / initial.PMastery
		m.RetentionRate = &r
	}
	m.PredictedRetention = PredictedRetention(m.DaysElapsed, state.Review.EaseFactor)
	m.MissedReview = state.Review.NextReviewAt != nil && state.Review.NextReviewAt.Before(now)
	m.NeedsReview = m.MissedReview || (m.RetentionRate != nil && *m.RetentionRate < RetentionReviewBelow)
	return m, true
}

// RetentionSummary covers every practiced skill of a learner.
type RetentionSummary struct {
	Skills           []RetentionMetrics `json:"skills"`
	AverageRetention *float64           `json:"average_retention"`
	NeedingReview    []string           `json:"needing_review"`
}

// Retention measures every state that has history, ordered by skill ID.
func Retention(states []mastery.LearnerSkillState, history []MasteryPoint, now time.Time) RetentionSummary {
	sum := RetentionSummary{Skills: []RetentionMetrics{}, NeedingReview: []string{}}
	var rates []float64
	for _, s := range states {
		m, ok := SkillRetention(s, history, now)
		if !ok {
			continue
		}
		sum.Skills = append(sum.Skills, m)
		if m.RetentionRate != nil {
			rates = append(rates, *m.RetentionRate)
		}
	}
	sort.Slice(sum.Skills, func(i, j int) bool { return sum.Skills[i].SkillID < sum.Skills[j].SkillID })
	for _, m := range sum.Skills {
		if m.NeedsReview {
			sum.NeedingReview = append(sum.NeedingReview, m.SkillID)
		}
	}
	if len(rates) > 0 {
		avg := stat.Mean(rates, nil)
		sum.AverageRetention = &avg
	}
	return sum
}
