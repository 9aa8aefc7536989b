package profile

import (
	"testing"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/session"
)

// monday is 2026-03-02 09:00 UTC.
var monday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func mustNew(t *testing.T, et interaction.EventType, skill string, payload any, at time.Time) interaction.Interaction {
	t.Helper()
	i, err := interaction.New("learner-1", "nb-1", et, skill, payload, at)
	if err != nil {
		t.Fatalf("interaction.New: %v", err)
	}
	return i
}

type attemptOpt func(*interaction.PracticeAttempt)

func rt(ms int64) attemptOpt {
	return func(p *interaction.PracticeAttempt) { p.ResponseTimeMs = &ms }
}

func diff(d float64) attemptOpt {
	return func(p *interaction.PracticeAttempt) { p.Difficulty = &d }
}

func answer(a string) attemptOpt {
	return func(p *interaction.PracticeAttempt) { p.UserAnswer = a }
}

func practice(t *testing.T, skill string, correct bool, at time.Time, opts ...attemptOpt) interaction.Interaction {
	t.Helper()
	pa := interaction.PracticeAttempt{IsCorrect: correct}
	for _, o := range opts {
		o(&pa)
	}
	return mustNew(t, interaction.EventPracticeAttempt, skill, pa, at)
}

func rating(t *testing.T, skill string, r int, outcome *bool, at time.Time) interaction.Interaction {
	t.Helper()
	return mustNew(t, interaction.EventConfidenceRated, skill, interaction.ConfidenceRated{
		RatingType: "pre_attempt", Rating: r, Scale: 5, ActualOutcome: outcome,
	}, at)
}

func hint(t *testing.T, skill string, beforeMs int64, at time.Time) interaction.Interaction {
	t.Helper()
	return mustNew(t, interaction.EventHintRequested, skill, interaction.HintRequested{TimeBeforeHintMs: &beforeMs}, at)
}

func closedSession(t *testing.T, id string, start time.Time, d time.Duration) session.Session {
	t.Helper()
	s := session.Session{ID: id, LearnerID: "learner-1", NotebookID: "nb-1", StartedAt: start}
	if err := s.Close(start.Add(d)); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return s
}

func skillState(skill string, p float64, attempts, correct int) mastery.LearnerSkillState {
	s := mastery.NewState("learner-1", "nb-1", skill, mastery.DefaultParams(), mastery.DefaultThreshold, monday)
	s.PMastery = p
	s.TotalAttempts = attempts
	s.CorrectAttempts = correct
	s.Status = mastery.StatusFor(attempts, p, s.MasteryThreshold)
	return s
}

func boolPtr(b bool) *bool { return &b }

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
