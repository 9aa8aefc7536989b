package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

// ResetLearner deletes a learner's states, history, events, interactions,
// sessions and profiles in the notebook, in one transaction.
func (s *Store) ResetLearner(ctx context.Context, learnerID, notebookID string) error {
	tables := []string{
		tableSkillStates, tableHistory, tableMasteryEvents,
		tableInteractions, tableSessions, tableProfiles,
	}
	return s.withTx(ctx, func(tx dialect.Tx) error {
		for _, t := range tables {
			if err := exec(ctx, tx, sqlite.Delete(t).Where(learnerPredicate(learnerID, notebookID))); err != nil {
				return fmt.Errorf("reset %s: %w", t, err)
			}
		}
		return nil
	})
}
