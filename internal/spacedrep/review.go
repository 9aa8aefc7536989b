package spacedrep

import (
	"sort"
	"time"
)

// Status describes where a skill sits relative to its review date.
type Status string

const (
	StatusUnscheduled Status = "unscheduled"
	StatusNotDue      Status = "not_due"
	StatusDue         Status = "due"
	StatusOverdue     Status = "overdue"
)

// IsDue returns true if the skill has a review date at or before now.
func (s Schedule) IsDue(now time.Time) bool {
	return s.NextReviewAt != nil && !now.Before(*s.NextReviewAt)
}

// OverdueDays returns how many days past due the skill is. Returns 0 if not yet due.
func (s Schedule) OverdueDays(now time.Time) float64 {
	if !s.IsDue(now) {
		return 0
	}
	return now.Sub(*s.NextReviewAt).Hours() / 24.0
}

// Status classifies the schedule at now. A due review becomes overdue once
// it has gone unattended for more than half of its interval.
func (s Schedule) Status(now time.Time) Status {
	switch {
	case s.NextReviewAt == nil:
		return StatusUnscheduled
	case !s.IsDue(now):
		return StatusNotDue
	}
	grace := float64(max(s.IntervalDays, 1)) * 0.5
	if s.OverdueDays(now) > grace {
		return StatusOverdue
	}
	return StatusDue
}

// DaysUntilReview returns the whole days until the next review, rounded up.
// Returns 0 if already due or unscheduled.
func (s Schedule) DaysUntilReview(now time.Time) int {
	if s.NextReviewAt == nil || s.IsDue(now) {
		return 0
	}
	return int(s.NextReviewAt.Sub(now).Hours()/24.0) + 1
}

// Item pairs a skill with its schedule.
type Item struct {
	SkillID  string
	Schedule Schedule
}

// DueSkill is a skill whose review date has passed.
type DueSkill struct {
	SkillID      string    `json:"skill_id"`
	NextReviewAt time.Time `json:"next_review_at"`
	OverdueDays  float64   `json:"overdue_days"`
	Status       Status    `json:"status"`
}

// DueSkills returns every item due at now, most overdue first. Ties are
// broken by skill ID.
func DueSkills(items []Item, now time.Time) []DueSkill {
	var due []DueSkill
	for _, it := range items {
		if !it.Schedule.IsDue(now) {
			continue
		}
		due = append(due, DueSkill{
			SkillID:      it.SkillID,
			NextReviewAt: *it.Schedule.NextReviewAt,
			OverdueDays:  it.Schedule.OverdueDays(now),
			Status:       it.Schedule.Status(now),
		})
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].OverdueDays != due[j].OverdueDays {
			return due[i].OverdueDays > due[j].OverdueDays
		}
		return due[i].SkillID < due[j].SkillID
	})
	return due
}
