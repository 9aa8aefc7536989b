package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/skillpath/internal/profile"
)

// profileRepo stores each computed profile as a JSON document keyed by
// (learner, notebook, version).
type profileRepo struct{ s *Store }

func (r *profileRepo) Save(ctx context.Context, p *profile.InverseProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.s.withTx(ctx, func(tx dialect.Tx) error {
		version := 0
		sel := sqlite.Select("version").
			From(sqlite.Table(tableProfiles)).
			Where(learnerPredicate(p.LearnerID, p.NotebookID)).
			OrderBy(entsql.Desc("version")).
			Limit(1)
		err := query(ctx, tx, sel, func(rows *entsql.Rows) error {
			return rows.Scan(&version)
		})
		if err != nil {
			return fmt.Errorf("query profile version: %w", err)
		}
		p.Version = version + 1

		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		ins := sqlite.Insert(tableProfiles).
			Columns("id", "learner_id", "notebook_id", "version", "interactions_analyzed", "computed_at", "data").
			Values(p.ID, p.LearnerID, p.NotebookID, p.Version, p.InteractionsAnalyzed, p.ComputedAt.UTC(), string(data))
		if err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	})
}

func (r *profileRepo) Latest(ctx context.Context, learnerID, notebookID string) (*profile.InverseProfile, error) {
	var found *profile.InverseProfile
	sel := sqlite.Select("data").
		From(sqlite.Table(tableProfiles)).
		Where(learnerPredicate(learnerID, notebookID)).
		OrderBy(entsql.Desc("version")).
		Limit(1)
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		var p profile.InverseProfile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return fmt.Errorf("unmarshal profile: %w", err)
		}
		found = &p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query latest profile: %w", err)
	}
	return found, nil
}

func (r *profileRepo) Prune(ctx context.Context, learnerID, notebookID string, keep int) error {
	// Find the version threshold: the (keep+1)th most recent version.
	threshold := -1
	sel := sqlite.Select("version").
		From(sqlite.Table(tableProfiles)).
		Where(learnerPredicate(learnerID, notebookID)).
		OrderBy(entsql.Desc("version")).
		Offset(keep).
		Limit(1)
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&threshold)
	})
	if err != nil {
		return fmt.Errorf("query profiles for prune: %w", err)
	}
	if threshold < 0 {
		return nil // fewer than keep profiles exist
	}

	del := sqlite.Delete(tableProfiles).
		Where(entsql.And(learnerPredicate(learnerID, notebookID), entsql.LTE("version", threshold)))
	if err := exec(ctx, r.s.drv, del); err != nil {
		return fmt.Errorf("prune profiles: %w", err)
	}
	return nil
}
