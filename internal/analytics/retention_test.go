package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retState(skill string, p, ef float64, nextReview *time.Time) mastery.LearnerSkillState {
	s := mastery.NewState("l1", "nb", skill, mastery.DefaultParams(), 0.8, now)
	s.PMastery = p
	s.TotalAttempts = 5
	s.Review.EaseFactor = ef
	s.Review.NextReviewAt = nextReview
	return s
}

func TestPredictedRetention(t *testing.T) {
	assert.InDelta(t, 1, PredictedRetention(0, 2.5), 1e-12)
	assert.InDelta(t, math.Exp(-1), PredictedRetention(25, 2.5), 1e-12)
	assert.InDelta(t, math.Exp(-1), PredictedRetention(25, 0), 1e-12, "unset ease uses the initial ease")
}

func TestSkillRetention(t *testing.T) {
	future := now.AddDate(0, 0, 3)
	history := []MasteryPoint{pt("a", 0.5, 20), pt("a", 0.9, 10), pt("a", 0.95, 8)}

	m, ok := SkillRetention(retState("a", 0.81, 2.5, &future), history, now)
	require.True(t, ok)
	assert.InDelta(t, 0.9, m.InitialMastery, 1e-9, "first point at the threshold")
	assert.InDelta(t, 10, m.DaysElapsed, 1e-9)
	require.NotNil(t, m.RetentionRate)
	assert.InDelta(t, 0.9, *m.RetentionRate, 1e-9)
	assert.InDelta(t, math.Exp(-10.0/25), m.PredictedRetention, 1e-9)
	assert.False(t, m.MissedReview)
	assert.False(t, m.NeedsReview)

	m, _ = SkillRetention(retState("a", 0.6, 2.5, &future), history, now)
	assert.True(t, m.NeedsReview, "retention below 0.8")

	past := now.AddDate(0, 0, -1)
	m, _ = SkillRetention(retState("a", 0.9, 2.5, &past), history, now)
	assert.True(t, m.MissedReview)
	assert.True(t, m.NeedsReview)
}

func TestSkillRetention_NeverMasteredUsesPeak(t *testing.T) {
	history := []MasteryPoint{pt("a", 0.3, 5), pt("a", 0.6, 4), pt("a", 0.5, 1)}
	m, ok := SkillRetention(retState("a", 0.5, 2.5, nil), history, now)
	require.True(t, ok)
	assert.InDelta(t, 0.6, m.InitialMastery, 1e-9)
}

func TestSkillRetention_ZeroInitial(t *testing.T) {
	m, ok := SkillRetention(retState("a", 0.2, 2.5, nil), []MasteryPoint{pt("a", 0, 3)}, now)
	require.True(t, ok)
	assert.Nil(t, m.RetentionRate)
	assert.False(t, m.NeedsReview)
}

func TestRetention_Summary(t *testing.T) {
	past := now.AddDate(0, 0, -2)
	states := []mastery.LearnerSkillState{
		retState("b", 0.9, 2.5, &past),
		retState("a", 0.9, 2.5, nil),
		retState("c", 0.4, 2.5, nil), // no history
	}
	history := []MasteryPoint{pt("a", 0.9, 3), pt("b", 0.9, 5)}
	s := Retention(states, history, now)
	require.Len(t, s.Skills, 2)
	assert.Equal(t, "a", s.Skills[0].SkillID)
	assert.Equal(t, []string{"b"}, s.NeedingReview)
	require.NotNil(t, s.AverageRetention)
	assert.InDelta(t, 1, *s.AverageRetention, 1e-9)
}
