package profile

import (
	"fmt"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/session"
	"gonum.org/v1/gonum/stat"
)

// GoalOrientation is the learner's dominant achievement goal.
type GoalOrientation string

const (
	GoalMastery     GoalOrientation = "mastery"
	GoalPerformance GoalOrientation = "performance"
	GoalAvoidance   GoalOrientation = "avoidance"
	GoalUnknown     GoalOrientation = "unknown"
)

// Motivational thresholds.
const (
	ReturnGap          = 4 * time.Hour
	PersistenceCap     = 5
	AvoidanceSkipRate  = 0.3
	MasterySkipRate    = 0.1
	MasteryPersistence = 0.6
	MasteryDifficulty  = 0.5
	LowPersistence     = 0.3
	EasyDifficulty     = 0.4
)

// MotivationalIndicators describes engagement and persistence.
type MotivationalIndicators struct {
	SessionsPerWeek            *float64        `json:"session_frequency"`
	AverageSessionDurationMs   *float64        `json:"average_session_duration_ms"`
	VoluntaryReturnRate        *float64        `json:"voluntary_return_rate"`
	PersistenceScore           *float64        `json:"persistence_score"`
	SkipRate                   *float64        `json:"skip_rate"`
	AverageDifficultyAttempted *float64        `json:"average_difficulty_attempted"`
	GoalOrientation            GoalOrientation `json:"goal_orientation"`
}

// Motivational computes the motivational dimension.
func Motivational(w Window) (MotivationalIndicators, []string) {
	m := MotivationalIndicators{GoalOrientation: GoalUnknown}
	var warnings []string

	sessions := append([]session.Session(nil), w.Sessions...)
	session.SortByStart(sessions)
	need := Policies[DimensionMotivational].MinSamples
	if len(sessions) < need {
		warnings = append(warnings, fmt.Sprintf("motivational: %d sessions, need %d; indicators unknown", len(sessions), need))
		return m, warnings
	}

	first, last := sessions[0].StartedAt, sessions[len(sessions)-1].StartedAt
	m.SessionsPerWeek = ptr(float64(len(sessions)) / weeksSpanned(first, last))

	var durations []float64
	for _, s := range sessions {
		if s.DurationMs != nil {
			durations = append(durations, float64(*s.DurationMs))
		}
	}
	if len(durations) > 0 {
		m.AverageSessionDurationMs = ptr(stat.Mean(durations, nil))
	} else {
		warnings = append(warnings, "motivational: no closed sessions; average duration unknown")
	}

	returns := 0
	for i := 1; i < len(sessions); i++ {
		prevEnd := sessions[i-1].StartedAt
		if sessions[i-1].EndedAt != nil {
			prevEnd = *sessions[i-1].EndedAt
		}
		if sessions[i].StartedAt.Sub(prevEnd) > ReturnGap {
			returns++
		}
	}
	m.VoluntaryReturnRate = ratio(returns, len(sessions)-1)

	attempts := w.attempts()
	m.PersistenceScore = persistence(attempts)
	if m.PersistenceScore == nil {
		warnings = append(warnings, "motivational: no failed attempts; persistence unknown")
	}

	skips := len(interaction.OfType(w.Interactions, interaction.EventPracticeSkipped))
	m.SkipRate = ratio(skips, skips+len(attempts))

	var diffs []float64
	for _, a := range attempts {
		if d := w.difficulty(a); d != nil {
			diffs = append(diffs, *d)
		}
	}
	if len(diffs) > 0 {
		m.AverageDifficultyAttempted = ptr(stat.Mean(diffs, nil))
	}

	m.GoalOrientation = goalOrientation(m.SkipRate, m.PersistenceScore, m.AverageDifficultyAttempted)
	if m.GoalOrientation == GoalUnknown {
		warnings = append(warnings, "motivational: skip rate, persistence or difficulty unknown; goal orientation unknown")
	}
	return m, warnings
}

// persistence averages, over skills with at least one failure, how many
// further attempts followed the first failure (capped at PersistenceCap),
// normalized to [0, 1].
func persistence(attempts []attempt) *float64 {
	after := map[string]int{}
	failed := map[string]bool{}
	var order []string
	for _, a := range attempts {
		if failed[a.SkillID] {
			if after[a.SkillID] < PersistenceCap {
				after[a.SkillID]++
			}
			continue
		}
		if !a.IsCorrect {
			failed[a.SkillID] = true
			order = append(order, a.SkillID)
		}
	}
	if len(order) == 0 {
		return nil
	}
	var sum float64
	for _, id := range order {
		sum += float64(after[id])
	}
	return ptr(sum / float64(len(order)) / PersistenceCap)
}

func goalOrientation(skip, persistence, difficulty *float64) GoalOrientation {
	if skip != nil && *skip > AvoidanceSkipRate {
		return GoalAvoidance
	}
	if skip == nil || persistence == nil || difficulty == nil {
		return GoalUnknown
	}
	switch {
	case *persistence < LowPersistence && *difficulty < EasyDifficulty:
		return GoalAvoidance
	case *persistence >= MasteryPersistence && *difficulty >= MasteryDifficulty && *skip < MasterySkipRate:
		return GoalMastery
	default:
		return GoalPerformance
	}
}
