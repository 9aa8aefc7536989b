package mastery

// Status represents a skill's position in the mastery lifecycle.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusLearning   Status = "learning"
	StatusMastered   Status = "mastered"
)

// Transition triggers.
const (
	TriggerFirstAttempt = "first-attempt"
	TriggerCrossedUp    = "threshold-reached"
	TriggerCrossedDown  = "threshold-lost"
)

// StateTransition records a mastery status change for event logging.
type StateTransition struct {
	LearnerID string
	SkillID   string
	From      Status
	To        Status
	Trigger   string
	PMastery  float64
}

// StatusFor derives the mastery status from attempts, probability and threshold.
func StatusFor(totalAttempts int, pMastery, threshold float64) Status {
	switch {
	case totalAttempts == 0:
		return StatusNotStarted
	case pMastery >= threshold:
		return StatusMastered
	default:
		return StatusLearning
	}
}
