package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// WorkingMemory is an indicator of working-memory load capacity.
type WorkingMemory string

const (
	WorkingMemoryLow     WorkingMemory = "low"
	WorkingMemoryMedium  WorkingMemory = "medium"
	WorkingMemoryHigh    WorkingMemory = "high"
	WorkingMemoryUnknown WorkingMemory = "unknown"
)

// Expertise is a Dreyfus-style expertise level.
type Expertise string

const (
	ExpertiseNovice           Expertise = "novice"
	ExpertiseAdvancedBeginner Expertise = "advanced_beginner"
	ExpertiseCompetent        Expertise = "competent"
	ExpertiseProficient       Expertise = "proficient"
	ExpertiseExpert           Expertise = "expert"
	ExpertiseUnknown          Expertise = "unknown"
)

// expertiseLevels are checked top-down; the first row whose accuracy and
// speed limits are met wins. A zero MaxResponseMs means speed is not
// considered for that row.
var expertiseLevels = []struct {
	MinAccuracy   float64
	MaxResponseMs float64
	Level         Expertise
}{
	{0.9, 10_000, ExpertiseExpert},
	{0.8, 20_000, ExpertiseProficient},
	{0.65, 0, ExpertiseCompetent},
	{0.45, 0, ExpertiseAdvancedBeginner},
	{0, 0, ExpertiseNovice},
}

// MinBucketAttempts is the number of attempts a difficulty bucket needs
// before its accuracy is used.
const MinBucketAttempts = 3

// DesirableDifficultyAccuracy is the accuracy that marks the optimal
// challenge level.
const DesirableDifficultyAccuracy = 0.7

// BucketAccuracy is the accuracy observed in one difficulty bucket.
type BucketAccuracy struct {
	Bucket   DifficultyBucket `json:"bucket"`
	Attempts int              `json:"attempts"`
	Accuracy float64          `json:"accuracy"`
}

// CognitiveIndicators describes how the learner handles load and challenge.
type CognitiveIndicators struct {
	WorkingMemory          WorkingMemory     `json:"working_memory"`
	Expertise              Expertise         `json:"expertise_level"`
	Accuracy               *float64          `json:"accuracy"`
	AverageResponseTimeMs  *float64          `json:"average_response_time_ms"`
	ResponseTimeCV         *float64          `json:"response_time_cv"`
	HintRate               *float64          `json:"hint_rate"`
	AccuracyByDifficulty   []BucketAccuracy  `json:"accuracy_by_difficulty"`
	CognitiveLoadThreshold *DifficultyBucket `json:"cognitive_load_threshold"`
	OptimalComplexity      *DifficultyBucket `json:"optimal_complexity"`
}

// Cognitive computes the cognitive dimension.
func Cognitive(w Window) (CognitiveIndicators, []string) {
	c := CognitiveIndicators{WorkingMemory: WorkingMemoryUnknown, Expertise: ExpertiseUnknown}
	var warnings []string

	attempts := w.attempts()
	need := Policies[DimensionCognitive].MinSamples
	if len(attempts) < need {
		warnings = append(warnings, fmt.Sprintf("cognitive: %d practice attempts, need %d; indicators unknown", len(attempts), need))
		return c, warnings
	}

	correct, assisted := 0, 0
	var times []float64
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
		if a.assisted {
			assisted++
		}
		if a.ResponseTimeMs != nil {
			times = append(times, float64(*a.ResponseTimeMs))
		}
	}
	c.Accuracy = ratio(correct, len(attempts))
	c.HintRate = ratio(assisted, len(attempts))

	if len(times) > 0 {
		c.AverageResponseTimeMs = ptr(stat.Mean(times, nil))
	}
	if len(times) >= 2 && *c.AverageResponseTimeMs > 0 {
		c.ResponseTimeCV = ptr(stat.StdDev(times, nil) / *c.AverageResponseTimeMs)
	}

	c.WorkingMemory = workingMemory(*c.HintRate, c.ResponseTimeCV)
	if c.WorkingMemory == WorkingMemoryUnknown {
		warnings = append(warnings, "cognitive: fewer than 2 timed attempts; working memory unknown")
	}
	c.Expertise = expertise(*c.Accuracy, c.AverageResponseTimeMs)
	if c.AverageResponseTimeMs == nil {
		warnings = append(warnings, "cognitive: no response times; expertise capped at competent")
	}

	c.AccuracyByDifficulty = accuracyByDifficulty(w, attempts)
	c.CognitiveLoadThreshold, c.OptimalComplexity = challengeLevels(c.AccuracyByDifficulty)
	if c.OptimalComplexity == nil {
		warnings = append(warnings, fmt.Sprintf("cognitive: no difficulty bucket with %d attempts; optimal complexity unknown", MinBucketAttempts))
	}
	return c, warnings
}

func workingMemory(hintRate float64, cv *float64) WorkingMemory {
	if cv == nil {
		return WorkingMemoryUnknown
	}
	switch {
	case hintRate < 0.1 && *cv < 0.3:
		return WorkingMemoryHigh
	case hintRate > 0.3 || *cv > 0.6:
		return WorkingMemoryLow
	default:
		return WorkingMemoryMedium
	}
}

func expertise(accuracy float64, avgMs *float64) Expertise {
	for _, row := range expertiseLevels {
		if accuracy < row.MinAccuracy {
			continue
		}
		if row.MaxResponseMs > 0 && (avgMs == nil || *avgMs > row.MaxResponseMs) {
			// Speed unknown or too slow for this row; with no times at
			// all the best reachable level is competent.
			continue
		}
		return row.Level
	}
	return ExpertiseNovice
}

func accuracyByDifficulty(w Window, attempts []attempt) []BucketAccuracy {
	type tally struct{ total, correct int }
	counts := make([]tally, len(difficultyBuckets))
	for _, a := range attempts {
		d := w.difficulty(a)
		if d == nil {
			continue
		}
		i := DifficultyBucketOf(*d).Rank()
		counts[i].total++
		if a.IsCorrect {
			counts[i].correct++
		}
	}
	var out []BucketAccuracy
	for i, t := range counts {
		if t.total < MinBucketAttempts {
			continue
		}
		out = append(out, BucketAccuracy{
			Bucket:   difficultyBuckets[i].Bucket,
			Attempts: t.total,
			Accuracy: float64(t.correct) / float64(t.total),
		})
	}
	return out
}

// challengeLevels returns the hardest bucket still answered at least half
// the time, and the bucket whose accuracy is closest to the desirable
// difficulty. Ties go to the easier bucket.
func challengeLevels(buckets []BucketAccuracy) (load, optimal *DifficultyBucket) {
	best := math.Inf(1)
	for _, b := range buckets {
		if b.Accuracy >= 0.5 {
			load = ptr(b.Bucket)
		}
		if d := math.Abs(b.Accuracy - DesirableDifficultyAccuracy); d < best {
			best = d
			optimal = ptr(b.Bucket)
		}
	}
	return load, optimal
}
