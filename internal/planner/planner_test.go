package planner

import (
	"testing"
	"time"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/skillgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC)

func testGraph(t *testing.T) *skillgraph.Graph {
	t.Helper()
	g, err := skillgraph.New(
		[]skillgraph.SkillNode{
			{ID: "count", Name: "Counting", Difficulty: 0.1},
			{ID: "add", Name: "Addition", Difficulty: 0.2},
			{ID: "sub", Name: "Subtraction", Difficulty: 0.3},
			{ID: "mult", Name: "Multiplication", Difficulty: 0.5},
		},
		[]skillgraph.Prerequisite{
			{FromSkillID: "count", ToSkillID: "add", Strength: skillgraph.StrengthRequired},
			{FromSkillID: "add", ToSkillID: "sub", Strength: skillgraph.StrengthRequired},
			{FromSkillID: "add", ToSkillID: "mult", Strength: skillgraph.StrengthRequired},
		},
	)
	require.NoError(t, err)
	return g
}

func st(id string, p float64, attempts, correct int, nextReview *time.Time) mastery.LearnerSkillState {
	s := mastery.NewState("l1", "nb", id, mastery.DefaultParams(), mastery.DefaultThreshold, now)
	s.PMastery = p
	s.TotalAttempts = attempts
	s.CorrectAttempts = correct
	s.Status = mastery.StatusFor(attempts, p, s.MasteryThreshold)
	s.Review.NextReviewAt = nextReview
	return s
}

func TestRecommend_NewLearner(t *testing.T) {
	in := Input{Graph: testGraph(t), Thresholds: scaffold.DefaultThresholds(), Now: now}
	slot, ok := Recommend(in)
	require.True(t, ok)
	assert.Equal(t, "count", slot.SkillID)
	assert.Equal(t, "Counting", slot.SkillName)
	assert.Equal(t, CategoryFrontier, slot.Category)
	assert.Equal(t, scaffold.LevelFadedExamples, slot.ScaffoldLevel, "prior 0.3 sits on the level 2 boundary")
	assert.Equal(t, scaffold.SupportFadedExamples, slot.Support)
}

func TestRecommend_DueReviewWins(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	in := Input{
		Graph: testGraph(t),
		States: map[string]mastery.LearnerSkillState{
			"count": st("count", 0.95, 6, 6, &past),
		},
		Thresholds: scaffold.DefaultThresholds(),
		Now:        now,
	}
	slot, ok := Recommend(in)
	require.True(t, ok)
	assert.Equal(t, "count", slot.SkillID)
	assert.Equal(t, CategoryReview, slot.Category)
	assert.Equal(t, scaffold.LevelIndependent, slot.ScaffoldLevel)
}

func TestRecommend_NothingLeft(t *testing.T) {
	future := now.Add(72 * time.Hour)
	states := map[string]mastery.LearnerSkillState{}
	for _, id := range []string{"count", "add", "sub", "mult"} {
		states[id] = st(id, 0.95, 6, 6, &future)
	}
	_, ok := Recommend(Input{Graph: testGraph(t), States: states, Thresholds: scaffold.DefaultThresholds(), Now: now})
	assert.False(t, ok)
}

func TestBuildPlan_Mix(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(72 * time.Hour)
	in := Input{
		Graph: testGraph(t),
		States: map[string]mastery.LearnerSkillState{
			"count": st("count", 0.95, 8, 8, &past),
			"add":   st("add", 0.9, 10, 8, &future),
		},
		Thresholds: scaffold.DefaultThresholds(),
		Now:        now,
	}
	plan := BuildPlan(in, 0)
	var got []string
	for _, s := range plan.Slots {
		got = append(got, string(s.Category)+":"+s.SkillID)
	}
	assert.Equal(t, []string{
		"review:count",
		"frontier:sub",
		"frontier:mult",
		"booster:add",
	}, got)
}

func TestBuildPlan_NewLearnerAllFrontier(t *testing.T) {
	plan := BuildPlan(Input{Graph: testGraph(t), Thresholds: scaffold.DefaultThresholds(), Now: now}, 3)
	require.Len(t, plan.Slots, 1, "only one skill has its prerequisites met")
	assert.Equal(t, CategoryFrontier, plan.Slots[0].Category)
}
