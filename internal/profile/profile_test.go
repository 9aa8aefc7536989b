package profile

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenInteractionWindow has 8 practice attempts and 2 confidence ratings.
func tenInteractionWindow(t *testing.T) Window {
	var is []interaction.Interaction
	at := monday
	for i := 0; i < 8; i++ {
		is = append(is, practice(t, "fraction-add", i%4 != 0, at, rt(int64(6000+500*i))))
		at = at.Add(minutes(2))
	}
	is = append(is, rating(t, "fraction-add", 4, nil, monday.Add(minutes(1))))
	is = append(is, rating(t, "fraction-add", 2, nil, monday.Add(minutes(3))))
	return Window{
		LearnerID:    "learner-1",
		NotebookID:   "nb-1",
		Interactions: is,
		States:       []mastery.LearnerSkillState{skillState("fraction-add", 0.74, 8, 6)},
		Now:          at,
	}
}

func TestCompute_SparseRatingsLeaveCalibrationUnknown(t *testing.T) {
	res, err := Compute(context.Background(), tenInteractionWindow(t))
	require.NoError(t, err)
	p := res.Profile

	assert.Equal(t, 10, p.InteractionsAnalyzed)
	require.NotNil(t, p.Knowledge.AverageMastery, "knowledge is computed at 10 interactions")
	assert.InDelta(t, 0.74, *p.Knowledge.AverageMastery, 1e-9)
	assert.NotNil(t, p.Knowledge.KnowledgeGaps)

	assert.Equal(t, 2, p.Metacognitive.RatingsPaired)
	assert.Nil(t, p.Metacognitive.CalibrationAccuracy, "calibration needs 5 paired ratings")
	assert.Nil(t, p.Metacognitive.OverconfidenceRate)
	assert.Contains(t, res.Warnings, "metacognitive: 2 paired confidence ratings, need 5; calibration unknown")

	assert.Equal(t, GoalUnknown, p.Motivational.GoalOrientation)
	assert.InDelta(t, Policies[DimensionKnowledge].MaxConfidence/2, p.ConfidenceScores.Knowledge, 1e-12)
	assert.InDelta(t, 0.8/(1+math.Exp(1.5)), p.ConfidenceScores.Motivational, 1e-12)

	assert.Equal(t, 8, res.DataQuality.PracticeCount)
	assert.Equal(t, 2, res.DataQuality.RatingCount)
}

func TestCompute_Deterministic(t *testing.T) {
	w := tenInteractionWindow(t)
	a, err := Compute(context.Background(), w)
	require.NoError(t, err)
	b, err := Compute(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compute(ctx, tenInteractionWindow(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompute_EmptyWindow(t *testing.T) {
	res, err := Compute(context.Background(), Window{Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, QualityInsufficient, res.DataQuality.Level)
	assert.Len(t, res.Warnings, 5, "one degradation per dimension")
	for _, d := range Dimensions {
		c := res.Profile.ConfidenceScores.Get(d)
		assert.GreaterOrEqual(t, c, MinFloor)
		assert.Less(t, c, 0.15, "%s confidence with no data", d)
	}
}

func TestCompute_ReportsUndecodablePayloads(t *testing.T) {
	w := tenInteractionWindow(t)
	w.Interactions = append(w.Interactions, interaction.Interaction{
		EventType: interaction.EventPracticeAttempt, SkillID: "x", Payload: []byte(`{"isCorrect":"nope"}`), CreatedAt: monday,
	})
	res, err := Compute(context.Background(), w)
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "1 interactions with undecodable payloads ignored")
}
