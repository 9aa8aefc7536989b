package profile

import (
	"fmt"
	"sort"
	"time"
)

// SystematicErrorMinRepeats is how many times the same wrong answer must
// recur on a skill to count as systematic.
const SystematicErrorMinRepeats = 2

// SystematicError is a wrong answer the learner keeps giving on a skill.
type SystematicError struct {
	SkillID string `json:"skill_id"`
	Answer  string `json:"answer"`
	Count   int    `json:"count"`
}

// BehavioralPatterns describes when and how the learner practices.
type BehavioralPatterns struct {
	PreferredTimeOfDay TimeOfDay         `json:"preferred_time_of_day"`
	PreferredDayOfWeek DayOfWeek         `json:"preferred_day_of_week"`
	TimeOfDayHistogram map[TimeOfDay]int `json:"time_of_day_histogram,omitempty"`
	HintUsageRate      *float64          `json:"hint_usage_rate"`
	SystematicErrors   []SystematicError `json:"systematic_errors"`
	LearningVelocity   *float64          `json:"learning_velocity"`
}

// Behavioral computes the behavioral dimension.
func Behavioral(w Window) (BehavioralPatterns, []string) {
	b := BehavioralPatterns{PreferredTimeOfDay: TimeUnknown, PreferredDayOfWeek: DayUnknown}
	var warnings []string

	is := w.sorted()
	need := Policies[DimensionBehavioral].MinSamples
	if len(is) < need {
		warnings = append(warnings, fmt.Sprintf("behavioral: %d interactions, need %d; patterns unknown", len(is), need))
		return b, warnings
	}

	loc := w.location()
	b.TimeOfDayHistogram = map[TimeOfDay]int{}
	var days [7]int
	for _, i := range is {
		t := i.CreatedAt.In(loc)
		b.TimeOfDayHistogram[TimeOfDayOf(t.Hour())]++
		days[t.Weekday()]++
	}
	b.PreferredTimeOfDay = argmaxTimeOfDay(b.TimeOfDayHistogram)
	bestDay := 0
	for d := 1; d < len(days); d++ {
		if days[d] > days[bestDay] {
			bestDay = d
		}
	}
	b.PreferredDayOfWeek = dayOf(time.Weekday(bestDay))

	attempts := w.attempts()
	assisted := 0
	for _, a := range attempts {
		if a.assisted {
			assisted++
		}
	}
	b.HintUsageRate = ratio(assisted, len(attempts))
	if b.HintUsageRate == nil {
		warnings = append(warnings, "behavioral: no practice attempts; hint usage and velocity unknown")
		return b, warnings
	}

	b.SystematicErrors = systematicErrors(attempts)

	skills := map[string]bool{}
	for _, a := range attempts {
		skills[a.SkillID] = true
	}
	b.LearningVelocity = ptr(float64(len(skills)) / weeksSpanned(attempts[0].At, attempts[len(attempts)-1].At))
	return b, warnings
}

// argmaxTimeOfDay picks the busiest part of the day; ties go to the
// earlier entry in the bucket table.
func argmaxTimeOfDay(h map[TimeOfDay]int) TimeOfDay {
	best, bestN := TimeUnknown, 0
	for _, e := range timeOfDayBuckets {
		if n := h[e.Bucket]; n > bestN {
			best, bestN = e.Bucket, n
		}
	}
	return best
}

func systematicErrors(attempts []attempt) []SystematicError {
	type key struct{ skill, answer string }
	counts := map[key]int{}
	for _, a := range attempts {
		if !a.IsCorrect && a.UserAnswer != "" {
			counts[key{a.SkillID, a.UserAnswer}]++
		}
	}
	out := []SystematicError{}
	for k, n := range counts {
		if n >= SystematicErrorMinRepeats {
			out = append(out, SystematicError{SkillID: k.skill, Answer: k.answer, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].SkillID != out[j].SkillID {
			return out[i].SkillID < out[j].SkillID
		}
		return out[i].Answer < out[j].Answer
	})
	return out
}

// SystematicErrorSkills returns the distinct skills with systematic errors, sorted.
func (b BehavioralPatterns) SystematicErrorSkills() []string {
	seen := map[string]bool{}
	var ids []string
	for _, e := range b.SystematicErrors {
		if !seen[e.SkillID] {
			seen[e.SkillID] = true
			ids = append(ids, e.SkillID)
		}
	}
	sort.Strings(ids)
	return ids
}
