package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsights_TrustedDimensions(t *testing.T) {
	cal := 0.7
	persist := 0.8
	optimal := DifficultyHard
	p := InverseProfile{
		Knowledge: KnowledgeState{
			SkillsTracked:  4,
			StatusCounts:   StatusCounts{Mastered: 2, Learning: 2},
			AverageMastery: &cal,
			KnowledgeGaps:  []SkillGap{{SkillID: "ratios", PMastery: 0.2, Attempts: 5}},
			ZPDSkills:      []string{"fraction-mult"},
		},
		Cognitive:     CognitiveIndicators{Expertise: ExpertiseExpert, WorkingMemory: WorkingMemoryHigh, OptimalComplexity: &optimal},
		Metacognitive: MetacognitiveIndicators{CalibrationAccuracy: &cal, HelpSeeking: HelpSeekingAppropriate},
		Motivational:  MotivationalIndicators{PersistenceScore: &persist, GoalOrientation: GoalMastery},
		Behavioral:    BehavioralPatterns{PreferredTimeOfDay: TimeEvening},
		ConfidenceScores: ConfidenceScores{
			Knowledge: 0.9, Cognitive: 0.8, Metacognitive: 0.7, Motivational: 0.6, Behavioral: 0.85,
		},
	}
	got := Insights(p)
	want := []Insight{
		{DimensionKnowledge, InsightStrength, "Mastered 2 of 4 skills"},
		{DimensionKnowledge, InsightImprovement, "Low mastery after repeated practice: ratios"},
		{DimensionKnowledge, InsightRecommendation, "Ready to start fraction-mult"},
		{DimensionCognitive, InsightStrength, "Fast and accurate problem solving (expert)"},
		{DimensionCognitive, InsightRecommendation, "Practice at hard difficulty for the best challenge"},
		{DimensionMetacognitive, InsightStrength, "Confidence matches performance well"},
		{DimensionMetacognitive, InsightStrength, "Uses hints when they are needed"},
		{DimensionMotivational, InsightStrength, "Keeps going after mistakes"},
		{DimensionBehavioral, InsightRecommendation, "Schedule practice in the evening"},
	}
	assert.Equal(t, want, got)
}

func TestInsights_LowConfidenceSaysNothing(t *testing.T) {
	p := InverseProfile{
		Cognitive:        CognitiveIndicators{Expertise: ExpertiseNovice},
		Behavioral:       BehavioralPatterns{PreferredTimeOfDay: TimeMorning},
		ConfidenceScores: ConfidenceScores{Knowledge: 0.1, Cognitive: 0.1, Metacognitive: 0.1, Motivational: 0.1, Behavioral: 0.1},
	}
	assert.Empty(t, Insights(p))
}
