package profile

import (
	"fmt"
	"strings"
)

// InsightKind classifies an insight.
type InsightKind string

const (
	InsightStrength       InsightKind = "strength"
	InsightImprovement    InsightKind = "improvement"
	InsightRecommendation InsightKind = "recommendation"
)

// Insight is a short human-readable statement derived from a profile.
type Insight struct {
	Dimension Dimension   `json:"dimension"`
	Kind      InsightKind `json:"kind"`
	Message   string      `json:"message"`
}

// MinInsightConfidence is the dimension confidence below which no insight
// is drawn from that dimension.
const MinInsightConfidence = 0.3

// Insights derives insights from a profile. The output depends only on the
// profile, in dimension order.
func Insights(p InverseProfile) []Insight {
	var out []Insight
	add := func(d Dimension, k InsightKind, format string, args ...any) {
		out = append(out, Insight{Dimension: d, Kind: k, Message: fmt.Sprintf(format, args...)})
	}
	trusted := func(d Dimension) bool { return p.ConfidenceScores.Get(d) >= MinInsightConfidence }

	if k := p.Knowledge; trusted(DimensionKnowledge) && k.AverageMastery != nil {
		if k.StatusCounts.Mastered > 0 {
			add(DimensionKnowledge, InsightStrength, "Mastered %d of %d skills", k.StatusCounts.Mastered, k.SkillsTracked)
		}
		if len(k.KnowledgeGaps) > 0 {
			add(DimensionKnowledge, InsightImprovement, "Low mastery after repeated practice: %s", gapIDs(k.KnowledgeGaps))
		}
		if len(k.Misconceptions) > 0 {
			add(DimensionKnowledge, InsightRecommendation, "Revisit worked examples for %s", k.Misconceptions[0].SkillID)
		}
		if len(k.ZPDSkills) > 0 {
			add(DimensionKnowledge, InsightRecommendation, "Ready to start %s", k.ZPDSkills[0])
		}
	}

	if c := p.Cognitive; trusted(DimensionCognitive) {
		switch c.Expertise {
		case ExpertiseExpert, ExpertiseProficient:
			add(DimensionCognitive, InsightStrength, "Fast and accurate problem solving (%s)", c.Expertise)
		case ExpertiseNovice:
			add(DimensionCognitive, InsightImprovement, "Accuracy is still developing")
		}
		if c.WorkingMemory == WorkingMemoryLow {
			add(DimensionCognitive, InsightRecommendation, "Break problems into smaller steps")
		}
		if c.OptimalComplexity != nil {
			add(DimensionCognitive, InsightRecommendation, "Practice at %s difficulty for the best challenge", strings.ReplaceAll(string(*c.OptimalComplexity), "_", " "))
		}
	}

	if m := p.Metacognitive; trusted(DimensionMetacognitive) {
		if m.CalibrationAccuracy != nil {
			if *m.CalibrationAccuracy >= 0.5 {
				add(DimensionMetacognitive, InsightStrength, "Confidence matches performance well")
			} else if *m.CalibrationAccuracy < 0.2 {
				add(DimensionMetacognitive, InsightImprovement, "Confidence does not track performance")
			}
		}
		if m.OverconfidenceRate != nil && *m.OverconfidenceRate > 0.4 {
			add(DimensionMetacognitive, InsightRecommendation, "Check answers before submitting when feeling sure")
		}
		switch m.HelpSeeking {
		case HelpSeekingAvoidant:
			add(DimensionMetacognitive, InsightRecommendation, "Ask for a hint when stuck")
		case HelpSeekingExcessive:
			add(DimensionMetacognitive, InsightRecommendation, "Try each problem before asking for a hint")
		case HelpSeekingAppropriate:
			add(DimensionMetacognitive, InsightStrength, "Uses hints when they are needed")
		}
	}

	if m := p.Motivational; trusted(DimensionMotivational) {
		if m.PersistenceScore != nil && *m.PersistenceScore >= MasteryPersistence {
			add(DimensionMotivational, InsightStrength, "Keeps going after mistakes")
		}
		if m.SessionsPerWeek != nil && *m.SessionsPerWeek < 2 {
			add(DimensionMotivational, InsightRecommendation, "Shorter, more frequent sessions help retention")
		}
		if m.GoalOrientation == GoalAvoidance {
			add(DimensionMotivational, InsightImprovement, "Often skips or avoids harder problems")
		}
	}

	if b := p.Behavioral; trusted(DimensionBehavioral) {
		if b.PreferredTimeOfDay != TimeUnknown {
			add(DimensionBehavioral, InsightRecommendation, "Schedule practice in the %s", b.PreferredTimeOfDay)
		}
		if ids := b.SystematicErrorSkills(); len(ids) > 0 {
			add(DimensionBehavioral, InsightImprovement, "Repeats the same wrong answer on %s", strings.Join(ids, ", "))
		}
	}
	return out
}

func gapIDs(gaps []SkillGap) string {
	ids := make([]string, len(gaps))
	for i, g := range gaps {
		ids[i] = g.SkillID
	}
	return strings.Join(ids, ", ")
}
