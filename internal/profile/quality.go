package profile

import "math"

// DataQualityLevel grades how much evidence a profile rests on.
type DataQualityLevel string

const (
	QualityInsufficient DataQualityLevel = "insufficient"
	QualityLimited      DataQualityLevel = "limited"
	QualityAdequate     DataQualityLevel = "adequate"
	QualityGood         DataQualityLevel = "good"
)

// qualityWeights define the data-quality score. Each term saturates at its
// target count.
var qualityWeights = []struct {
	Weight float64
	Target int
}{
	{0.4, 50}, // interactions
	{0.3, 20}, // practice attempts
	{0.2, 5},  // sessions
	{0.1, 5},  // confidence ratings
}

// qualityLevels are the score cut points, checked in order.
var qualityLevels = []struct {
	Below float64
	Level DataQualityLevel
}{
	{0.25, QualityInsufficient},
	{0.5, QualityLimited},
	{0.75, QualityAdequate},
}

// DataQuality is the evidence summary attached to every profile result.
type DataQuality struct {
	Level            DataQualityLevel `json:"level"`
	Score            float64          `json:"score"`
	InteractionCount int              `json:"interaction_count"`
	PracticeCount    int              `json:"practice_count"`
	SessionCount     int              `json:"session_count"`
	RatingCount      int              `json:"rating_count"`
}

// AssessDataQuality scores the window's evidence counts.
func AssessDataQuality(interactions, practice, sessions, ratings int) DataQuality {
	counts := []int{interactions, practice, sessions, ratings}
	var score float64
	for i, w := range qualityWeights {
		score += w.Weight * math.Min(1, float64(counts[i])/float64(w.Target))
	}
	q := DataQuality{
		Level:            QualityGood,
		Score:            score,
		InteractionCount: interactions,
		PracticeCount:    practice,
		SessionCount:     sessions,
		RatingCount:      ratings,
	}
	for _, l := range qualityLevels {
		if score < l.Below {
			q.Level = l.Level
			break
		}
	}
	return q
}
