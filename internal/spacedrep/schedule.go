// Package spacedrep implements an SM-2 style review scheduler.
package spacedrep

import (
	"math"
	"time"
)

const (
	// InitialEaseFactor is the ease factor of a skill that has never been reviewed.
	InitialEaseFactor = 2.5

	// MinEaseFactor is the floor applied after every review.
	MinEaseFactor = 1.3
)

// Milestones is the fallback interval sequence in days. It is used while a
// schedule has no stored interval to multiply, which happens for states that
// were imported or created before any SM-2 history existed.
var Milestones = []int{1, 3, 7, 14, 30, 60}

// MilestoneFor returns the milestone interval for the nth successful
// repetition (1-based). Repetitions past the end of the table reuse the
// last entry.
func MilestoneFor(repetitions int) int {
	if repetitions < 1 {
		return Milestones[0]
	}
	if repetitions > len(Milestones) {
		return Milestones[len(Milestones)-1]
	}
	return Milestones[repetitions-1]
}

// Schedule is the review state stored alongside a learner's skill state.
type Schedule struct {
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// NewSchedule returns the schedule of a skill that has not been practiced.
// It has no review date until the first quality rating is applied.
func NewSchedule() Schedule {
	return Schedule{EaseFactor: InitialEaseFactor}
}

// Scheduled reports whether a review date has been set.
func (s Schedule) Scheduled() bool {
	return s.NextReviewAt != nil
}

// Next applies one recall-quality rating and returns the updated schedule.
// The input is not modified.
func Next(s Schedule, q Quality, now time.Time) Schedule {
	q = q.clamp()
	ef := s.EaseFactor
	if ef == 0 {
		ef = InitialEaseFactor
	}
	d := float64(5 - q)
	ef = math.Max(MinEaseFactor, ef+(0.1-d*(0.08+d*0.02)))

	out := Schedule{EaseFactor: ef}
	if q < QualityPass {
		out.Repetitions = 0
		out.IntervalDays = 1
	} else {
		out.Repetitions = s.Repetitions + 1
		switch {
		case out.Repetitions == 1:
			out.IntervalDays = 1
		case out.Repetitions == 2:
			out.IntervalDays = 6
		case s.IntervalDays <= 0:
			out.IntervalDays = MilestoneFor(out.Repetitions)
		default:
			out.IntervalDays = int(math.Round(float64(s.IntervalDays) * ef))
		}
	}

	next := now.AddDate(0, 0, out.IntervalDays)
	reviewed := now
	out.NextReviewAt = &next
	out.LastReviewedAt = &reviewed
	return out
}

// Seed builds a schedule from the milestone table for a state that has
// review repetitions but no stored review date, such as an imported state.
func Seed(repetitions int, now time.Time) Schedule {
	if repetitions < 0 {
		repetitions = 0
	}
	interval := MilestoneFor(repetitions)
	next := now.AddDate(0, 0, interval)
	return Schedule{
		EaseFactor:   InitialEaseFactor,
		IntervalDays: interval,
		Repetitions:  repetitions,
		NextReviewAt: &next,
	}
}
