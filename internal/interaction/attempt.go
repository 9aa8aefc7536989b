package interaction

import "time"

// Attempt is a decoded practice attempt with its context.
type Attempt struct {
	InteractionID string
	SkillID       string
	SessionID     string
	At            time.Time
	PracticeAttempt
}

// Attempts decodes every practice_attempt in is, in order. Entries whose
// payload cannot be decoded are skipped and counted.
func Attempts(is []Interaction) (attempts []Attempt, skipped int) {
	for _, i := range is {
		if i.EventType != EventPracticeAttempt {
			continue
		}
		pa, err := i.PracticeAttempt()
		if err != nil {
			skipped++
			continue
		}
		attempts = append(attempts, Attempt{
			InteractionID:   i.ID,
			SkillID:         i.SkillID,
			SessionID:       i.SessionID,
			At:              i.CreatedAt,
			PracticeAttempt: pa,
		})
	}
	return attempts, skipped
}

// Rating is a decoded confidence rating with its context.
type Rating struct {
	SkillID string
	At      time.Time
	ConfidenceRated
}

// Ratings decodes every confidence_rated entry in is, in order.
func Ratings(is []Interaction) (ratings []Rating, skipped int) {
	for _, i := range is {
		if i.EventType != EventConfidenceRated {
			continue
		}
		cr, err := i.ConfidenceRated()
		if err != nil {
			skipped++
			continue
		}
		ratings = append(ratings, Rating{SkillID: i.SkillID, At: i.CreatedAt, ConfidenceRated: cr})
	}
	return ratings, skipped
}

// Hint is a decoded hint request with its context.
type Hint struct {
	SkillID string
	At      time.Time
	HintRequested
}

// Hints decodes every hint_requested entry in is, in order.
func Hints(is []Interaction) (hints []Hint, skipped int) {
	for _, i := range is {
		if i.EventType != EventHintRequested {
			continue
		}
		h, err := i.HintRequested()
		if err != nil {
			skipped++
			continue
		}
		hints = append(hints, Hint{SkillID: i.SkillID, At: i.CreatedAt, HintRequested: h})
	}
	return hints, skipped
}
