package tutor

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/skillpath/internal/analytics"
	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/store"
)

// LearningGain computes per-skill normalized gain between from and to.
// A zero to means now.
func (s *Service) LearningGain(ctx context.Context, learnerID, notebookID string, from, to time.Time) (analytics.LearningGain, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.After(to) {
		return analytics.LearningGain{}, invalidInput("from", "must not be after to")
	}
	hist, err := s.history(ctx, learnerID, notebookID)
	if err != nil {
		return analytics.LearningGain{}, err
	}
	return analytics.ComputeLearningGain(hist, from, to), nil
}

// Retention summarizes predicted and observed retention of mastered skills.
func (s *Service) Retention(ctx context.Context, learnerID, notebookID string) (analytics.RetentionSummary, error) {
	states, err := s.stateList(ctx, learnerID, notebookID)
	if err != nil {
		return analytics.RetentionSummary{}, err
	}
	hist, err := s.history(ctx, learnerID, notebookID)
	if err != nil {
		return analytics.RetentionSummary{}, err
	}
	return analytics.Retention(states, hist, s.now()), nil
}

// Transfer compares accuracy on novel items with accuracy on practiced ones.
func (s *Service) Transfer(ctx context.Context, learnerID, notebookID string) (analytics.TransferSummary, error) {
	is, err := s.repos.Interactions.List(ctx, learnerID, notebookID, store.QueryOpts{})
	if err != nil {
		return analytics.TransferSummary{}, unavailable(FeatureInteractions, err)
	}
	attempts, skipped := interaction.Attempts(is)
	if skipped > 0 {
		s.log.Debug("undecodable practice payloads skipped", "learner_id", learnerID, "count", skipped)
	}
	return analytics.Transfer(attempts), nil
}

// CohortOverview summarizes the learners of a notebook. An empty learner
// list means every learner with state in the notebook. Learner reads run in
// parallel, bounded by the configured concurrency.
func (s *Service) CohortOverview(ctx context.Context, notebookID string, learnerIDs []string) (analytics.CohortSummary, error) {
	if len(learnerIDs) == 0 {
		ids, err := s.repos.States.Learners(ctx, notebookID)
		if err != nil {
			return analytics.CohortSummary{}, unavailable(FeatureStates, err)
		}
		learnerIDs = ids
	}

	students := make([]analytics.StudentProgress, len(learnerIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.CohortConcurrency)
	for i, id := range learnerIDs {
		g.Go(func() error {
			sp, err := s.studentProgress(gctx, id, notebookID)
			if err != nil {
				return err
			}
			students[i] = sp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return analytics.CohortSummary{}, err
	}
	sort.Slice(students, func(i, j int) bool { return students[i].LearnerID < students[j].LearnerID })
	return analytics.Cohort(students, s.now()), nil
}

func (s *Service) studentProgress(ctx context.Context, learnerID, notebookID string) (analytics.StudentProgress, error) {
	sp := analytics.StudentProgress{LearnerID: learnerID}
	states, err := s.stateList(ctx, learnerID, notebookID)
	if err != nil {
		return sp, err
	}
	sp.States = states
	if sp.History, err = s.history(ctx, learnerID, notebookID); err != nil {
		return sp, err
	}
	last, err := s.repos.Interactions.LastActivity(ctx, learnerID, notebookID)
	if err != nil {
		return sp, unavailable(FeatureInteractions, err)
	}
	sp.LastActiveAt = last
	return sp, nil
}

func (s *Service) history(ctx context.Context, learnerID, notebookID string) ([]analytics.MasteryPoint, error) {
	hist, err := s.repos.States.History(ctx, learnerID, notebookID, store.QueryOpts{})
	if err != nil {
		s.log.Warn("mastery history read failed", "learner_id", learnerID, "error", err)
		return nil, unavailable(FeatureHistory, err)
	}
	return hist, nil
}
