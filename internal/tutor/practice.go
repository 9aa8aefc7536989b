package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/skillgraph"
	"github.com/abhisek/skillpath/internal/spacedrep"
	"github.com/abhisek/skillpath/internal/store"
)

// PracticeInput is one practice outcome to record.
type PracticeInput struct {
	LearnerID      string   `json:"learner_id"`
	NotebookID     string   `json:"notebook_id"`
	SkillID        string   `json:"skill_id"`
	SessionID      string   `json:"session_id,omitempty"`
	IsCorrect      bool     `json:"is_correct"`
	ResponseTimeMs *int64   `json:"response_time_ms,omitempty"`
	HintsUsed      int      `json:"hints_used"`
	Difficulty     *float64 `json:"difficulty,omitempty"`
	UserAnswer     string   `json:"user_answer,omitempty"`
	IsNovel        bool     `json:"is_novel"`
	// At defaults to the current time.
	At time.Time `json:"at,omitempty"`
}

// PracticeResult is the state after a practice outcome was applied.
type PracticeResult struct {
	InteractionID string                    `json:"interaction_id"`
	State         mastery.LearnerSkillState `json:"state"`
	Transition    *mastery.StateTransition  `json:"transition,omitempty"`
	Quality       spacedrep.Quality         `json:"quality"`
	Support       scaffold.Support          `json:"support"`
}

// RecordPractice appends the practice_attempt interaction and applies it to
// the learner's skill state in one atomic update.
func (s *Service) RecordPractice(ctx context.Context, in PracticeInput) (PracticeResult, error) {
	if in.LearnerID == "" {
		return PracticeResult{}, invalidInput("learner_id", "is required")
	}
	if in.NotebookID == "" {
		return PracticeResult{}, invalidInput("notebook_id", "is required")
	}
	if in.At.IsZero() {
		in.At = s.now()
	}
	payload := interaction.PracticeAttempt{
		IsCorrect:      in.IsCorrect,
		ResponseTimeMs: in.ResponseTimeMs,
		Difficulty:     in.Difficulty,
		UserAnswer:     in.UserAnswer,
		HintsUsed:      in.HintsUsed,
		IsNovel:        in.IsNovel,
	}
	it, err := interaction.New(in.LearnerID, in.NotebookID, interaction.EventPracticeAttempt, in.SkillID, payload, in.At.UTC())
	if err != nil {
		return PracticeResult{}, err
	}
	it.SessionID = in.SessionID
	return s.applyPractice(ctx, it)
}

// applyPractice validates a practice_attempt interaction, stores it together
// with the updated skill state, then touches the session it belongs to.
func (s *Service) applyPractice(ctx context.Context, it interaction.Interaction) (PracticeResult, error) {
	if err := interaction.Validate(it); err != nil {
		return PracticeResult{}, &InvalidInputError{Field: "payload", Err: err}
	}
	pa, err := it.PracticeAttempt()
	if err != nil {
		return PracticeResult{}, &InvalidInputError{Field: "payload", Err: err}
	}

	g, err := s.Graph(ctx, it.NotebookID)
	if err != nil {
		return PracticeResult{}, err
	}
	skill, ok := g.Skill(it.SkillID)
	if !ok {
		return PracticeResult{}, invalidInput("skill_id", "skill %q not in notebook %q", it.SkillID, it.NotebookID)
	}
	ns, err := s.Settings(ctx, it.NotebookID)
	if err != nil {
		return PracticeResult{}, err
	}

	quality := spacedrep.QualityFor(pa.IsCorrect, pa.HintsUsed, pa.ResponseTimeMs, ns.FastResponseMs)
	var transition *mastery.StateTransition
	key := store.StateKey{LearnerID: it.LearnerID, NotebookID: it.NotebookID, SkillID: it.SkillID}
	st, err := s.repos.States.Record(ctx, key, &it, func(cur *mastery.LearnerSkillState) (mastery.LearnerSkillState, *mastery.StateTransition, error) {
		transition = nil
		st := s.initialState(ns.Mastery, it, skill)
		if cur != nil {
			st = *cur
		}
		next, tr := step(st, pa.IsCorrect, quality, ns.Scaffold, it.CreatedAt)
		transition = tr
		return next, tr, nil
	})
	if err != nil {
		return PracticeResult{}, unavailable(FeatureStates, err)
	}

	s.log.Debug("practice recorded",
		"learner_id", it.LearnerID, "skill_id", it.SkillID, "correct", pa.IsCorrect,
		"p_mastery", st.PMastery, "status", st.Status, "quality", int(quality),
		"next_review_days", st.Review.IntervalDays, "scaffold_level", int(st.ScaffoldLevel))
	if transition != nil {
		s.log.Info("mastery transition",
			"learner_id", it.LearnerID, "skill_id", it.SkillID,
			"from", transition.From, "to", transition.To, "trigger", transition.Trigger)
	}

	if it.SessionID != "" {
		s.touchSession(ctx, it)
	}

	return PracticeResult{
		InteractionID: it.ID,
		State:         st,
		Transition:    transition,
		Quality:       quality,
		Support:       st.ScaffoldLevel.Support(),
	}, nil
}

func (s *Service) initialState(cfg mastery.Config, it interaction.Interaction, skill skillgraph.SkillNode) mastery.LearnerSkillState {
	return mastery.NewState(it.LearnerID, it.NotebookID, it.SkillID, cfg.ParamsFor(skill), cfg.ThresholdFor(skill), it.CreatedAt)
}

// step applies one outcome: knowledge tracing, then the review schedule,
// then the scaffold level derived from the new probability.
func step(st mastery.LearnerSkillState, correct bool, q spacedrep.Quality, th scaffold.Thresholds, at time.Time) (mastery.LearnerSkillState, *mastery.StateTransition) {
	if st.Review.Repetitions > 0 && !st.Review.Scheduled() {
		st.Review = spacedrep.Seed(st.Review.Repetitions, at)
	}
	next, tr := mastery.Update(st, correct, at)
	next.Review = spacedrep.Next(next.Review, q, at)
	next.ScaffoldLevel = th.Level(next.PMastery)
	return next, tr
}

// touchSession adds the practiced skill to the interaction's session,
// opening the session if it is new. Failures are logged, not returned.
func (s *Service) touchSession(ctx context.Context, it interaction.Interaction) {
	sess, err := s.repos.Sessions.Get(ctx, it.SessionID)
	if err != nil {
		s.log.Warn("session lookup failed", "session_id", it.SessionID, "error", err)
		return
	}
	if sess == nil {
		sess = &session.Session{ID: it.SessionID, LearnerID: it.LearnerID, NotebookID: it.NotebookID, StartedAt: it.CreatedAt}
	}
	if err := sess.AddSkill(it.SkillID); err != nil {
		s.log.Debug("practice on closed session", "session_id", it.SessionID)
		return
	}
	if err := s.repos.Sessions.Save(ctx, *sess); err != nil {
		s.log.Warn("session save failed", "session_id", it.SessionID, "error", err)
	}
}

// StartSession opens a session and logs a session_started interaction.
func (s *Service) StartSession(ctx context.Context, learnerID, notebookID, sessionID string, at time.Time) (session.Session, error) {
	if learnerID == "" || notebookID == "" || sessionID == "" {
		return session.Session{}, invalidInput("session", "learner, notebook and session ID are required")
	}
	if at.IsZero() {
		at = s.now()
	}
	sess := session.Session{ID: sessionID, LearnerID: learnerID, NotebookID: notebookID, StartedAt: at.UTC()}
	if err := s.repos.Sessions.Save(ctx, sess); err != nil {
		return sess, unavailable(FeatureSessions, err)
	}
	if err := s.logEvent(ctx, learnerID, notebookID, sessionID, interaction.EventSessionStarted, "", nil, at); err != nil {
		return sess, err
	}
	return sess, nil
}

// EndSession closes a session and logs a session_ended interaction.
func (s *Service) EndSession(ctx context.Context, sessionID string, at time.Time) (session.Session, error) {
	if at.IsZero() {
		at = s.now()
	}
	sess, err := s.repos.Sessions.Get(ctx, sessionID)
	if err != nil {
		return session.Session{}, unavailable(FeatureSessions, err)
	}
	if sess == nil {
		return session.Session{}, invalidInput("session_id", "session %q not found", sessionID)
	}
	if err := sess.Close(at.UTC()); err != nil {
		return *sess, &InvalidInputError{Field: "session_id", Err: err}
	}
	if err := s.repos.Sessions.Save(ctx, *sess); err != nil {
		return *sess, unavailable(FeatureSessions, err)
	}
	if err := s.logEvent(ctx, sess.LearnerID, sess.NotebookID, sessionID, interaction.EventSessionEnded, "", nil, at); err != nil {
		return *sess, err
	}
	return *sess, nil
}

// LogInteraction validates and appends a non-practice interaction such as a
// hint request, confidence rating or skip.
func (s *Service) LogInteraction(ctx context.Context, it interaction.Interaction) (interaction.Interaction, error) {
	if it.EventType == interaction.EventPracticeAttempt {
		res, err := s.applyPractice(ctx, it)
		it.ID = res.InteractionID
		return it, err
	}
	if it.LearnerID == "" || it.NotebookID == "" {
		return it, invalidInput("learner_id", "learner and notebook are required")
	}
	if !it.EventType.Known() {
		return it, invalidInput("event_type", "unknown event type %q", it.EventType)
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = s.now()
	}
	if err := interaction.Validate(it); err != nil {
		return it, &InvalidInputError{Field: "payload", Err: err}
	}
	if err := s.repos.Interactions.Append(ctx, &it); err != nil {
		return it, unavailable(FeatureInteractions, err)
	}
	return it, nil
}

func (s *Service) logEvent(ctx context.Context, learnerID, notebookID, sessionID string, t interaction.EventType, skillID string, payload any, at time.Time) error {
	it, err := interaction.New(learnerID, notebookID, t, skillID, payload, at.UTC())
	if err != nil {
		return err
	}
	it.SessionID = sessionID
	if err := s.repos.Interactions.Append(ctx, &it); err != nil {
		return unavailable(FeatureInteractions, err)
	}
	return nil
}

// ImportReport summarizes an event import.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportEvents replays an interaction log in time order. Practice attempts
// update skill states as if recorded live; session events open and close
// sessions. Invalid events are skipped and reported. Repository failures
// stop the import.
func (s *Service) ImportEvents(ctx context.Context, events []interaction.Interaction) (ImportReport, error) {
	var rep ImportReport
	interaction.SortByTime(events)
	for _, it := range events {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		err := s.importOne(ctx, it)
		switch {
		case err == nil:
			rep.Imported++
		case IsInvalidInput(err):
			rep.Skipped++
			rep.Errors = append(rep.Errors, fmt.Sprintf("event %s: %v", it.ID, err))
		default:
			return rep, err
		}
	}
	s.log.Info("events imported", "imported", rep.Imported, "skipped", rep.Skipped)
	return rep, nil
}

func (s *Service) importOne(ctx context.Context, it interaction.Interaction) error {
	switch it.EventType {
	case interaction.EventPracticeAttempt:
		_, err := s.applyPractice(ctx, it)
		return err
	case interaction.EventSessionStarted:
		if it.SessionID != "" {
			sess := session.Session{ID: it.SessionID, LearnerID: it.LearnerID, NotebookID: it.NotebookID, StartedAt: it.CreatedAt.UTC()}
			if err := s.repos.Sessions.Save(ctx, sess); err != nil {
				return unavailable(FeatureSessions, err)
			}
		}
	case interaction.EventSessionEnded:
		if it.SessionID != "" {
			sess, err := s.repos.Sessions.Get(ctx, it.SessionID)
			if err != nil {
				return unavailable(FeatureSessions, err)
			}
			if sess != nil {
				if err := sess.Close(it.CreatedAt.UTC()); err != nil && !errors.Is(err, session.ErrClosed) {
					return &InvalidInputError{Field: "session_id", Err: err}
				}
				if err := s.repos.Sessions.Save(ctx, *sess); err != nil {
					return unavailable(FeatureSessions, err)
				}
			}
		}
	}
	_, err := s.LogInteraction(ctx, it)
	return err
}
