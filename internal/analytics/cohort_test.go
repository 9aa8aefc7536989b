package analytics

import (
	"testing"
	"time"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cstate(learner, skill string, p float64) mastery.LearnerSkillState {
	s := mastery.NewState(learner, "nb", skill, mastery.DefaultParams(), 0.8, now)
	s.PMastery = p
	s.TotalAttempts = 4
	return s
}

func activeAt(daysAgo int) *time.Time {
	t := now.AddDate(0, 0, -daysAgo)
	return &t
}

func TestCohort(t *testing.T) {
	students := []StudentProgress{
		{
			LearnerID:    "ana",
			States:       []mastery.LearnerSkillState{cstate("ana", "a", 0.9), cstate("ana", "b", 0.3)},
			LastActiveAt: activeAt(1),
		},
		{
			LearnerID:    "ben",
			States:       []mastery.LearnerSkillState{cstate("ben", "a", 0.2), cstate("ben", "b", 0.25), cstate("ben", "c", 0.1)},
			LastActiveAt: activeAt(2),
		},
		{
			LearnerID:    "cy",
			States:       []mastery.LearnerSkillState{cstate("cy", "a", 0.85)},
			LastActiveAt: activeAt(9),
		},
	}
	s := Cohort(students, now)

	assert.Equal(t, 3, s.StudentCount)
	require.NotNil(t, s.AverageMastery)

	require.Len(t, s.StruggleSpots, 1)
	assert.Equal(t, StruggleSpot{SkillID: "b", Students: []string{"ana", "ben"}}, s.StruggleSpots[0])

	require.Len(t, s.AtRisk, 2)
	assert.Equal(t, "ben", s.AtRisk[0].LearnerID)
	assert.Len(t, s.AtRisk[0].Reasons, 2, "low average and three struggle areas")
	assert.Equal(t, "cy", s.AtRisk[1].LearnerID)
	assert.Equal(t, []string{"inactive for 9 days"}, s.AtRisk[1].Reasons)

	counts := make([]int, len(s.Distribution))
	for i, b := range s.Distribution {
		counts[i] = b.Count
	}
	// ana 0.6, ben ~0.18, cy 0.85
	assert.Equal(t, []int{1, 0, 0, 1, 1}, counts)
	assert.Equal(t, TrendUnknown, s.VelocityTrend)
}

func TestCohort_Empty(t *testing.T) {
	s := Cohort(nil, now)
	assert.Nil(t, s.AverageMastery)
	assert.Empty(t, s.AtRisk)
	assert.Equal(t, TrendUnknown, s.VelocityTrend)
}

func history(learner, skill string, points ...[2]float64) []MasteryPoint {
	var out []MasteryPoint
	for _, p := range points {
		out = append(out, MasteryPoint{LearnerID: learner, SkillID: skill, PMastery: p[1], RecordedAt: now.Add(-time.Duration(p[0] * 24 * float64(time.Hour)))})
	}
	return out
}

func TestVelocityTrend(t *testing.T) {
	tests := []struct {
		name string
		hist []MasteryPoint
		want Trend
	}{
		{
			"accelerating",
			history("l1", "a", [2]float64{25, 0.1}, [2]float64{20, 0.15}, [2]float64{3, 0.5}),
			TrendAccelerating,
		},
		{
			"slowing",
			history("l1", "a", [2]float64{25, 0.1}, [2]float64{20, 0.5}, [2]float64{3, 0.55}),
			TrendSlowing,
		},
		{
			"steady",
			history("l1", "a", [2]float64{25, 0.1}, [2]float64{20, 0.3}, [2]float64{3, 0.5}),
			TrendSteady,
		},
		{
			"no earlier data",
			history("l1", "a", [2]float64{5, 0.1}, [2]float64{3, 0.5}),
			TrendUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := velocity([]StudentProgress{{LearnerID: "l1", History: tt.hist}}, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
