package mastery

import "time"

// Posterior returns P(L | evidence) for a single observation.
func Posterior(prior float64, correct bool, p Params) float64 {
	prior = clamp01(prior)
	var num, den float64
	if correct {
		num = prior * (1 - p.PS)
		den = num + (1-prior)*p.PG
	} else {
		num = prior * p.PS
		den = num + (1-prior)*(1-p.PG)
	}
	if den <= 0 {
		// The observation is impossible under the parameters; keep the prior.
		return prior
	}
	return clamp01(num / den)
}

// Learn applies the learning transition to a posterior.
func Learn(posterior float64, p Params) float64 {
	return clamp01(posterior + (1-posterior)*p.PT)
}

// Update applies one practice outcome to the state and returns the new
// state. When the status changes, the transition is returned as well.
// The input state is not modified.
func Update(s LearnerSkillState, correct bool, now time.Time) (LearnerSkillState, *StateTransition) {
	prevStatus := s.Status
	if prevStatus == "" {
		prevStatus = StatusFor(s.TotalAttempts, s.PMastery, s.MasteryThreshold)
	}

	s.PMastery = Learn(Posterior(s.PMastery, correct, s.Params), s.Params)
	s.TotalAttempts++
	if correct {
		s.CorrectAttempts++
		s.ConsecutiveSuccesses++
	} else {
		s.ConsecutiveSuccesses = 0
	}
	s.Status = StatusFor(s.TotalAttempts, s.PMastery, s.MasteryThreshold)
	if s.Status == StatusMastered && s.MasteredAt == nil {
		at := now
		s.MasteredAt = &at
	}
	s.UpdatedAt = now

	if s.Status == prevStatus {
		return s, nil
	}
	tr := &StateTransition{
		LearnerID: s.LearnerID,
		SkillID:   s.SkillID,
		From:      prevStatus,
		To:        s.Status,
		PMastery:  s.PMastery,
	}
	switch {
	case prevStatus == StatusNotStarted && s.Status == StatusLearning:
		tr.Trigger = TriggerFirstAttempt
	case s.Status == StatusMastered:
		tr.Trigger = TriggerCrossedUp
	default:
		tr.Trigger = TriggerCrossedDown
	}
	return s, tr
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	case v != v:
		return 0
	}
	return v
}
