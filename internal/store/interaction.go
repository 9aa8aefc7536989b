package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/skillpath/internal/interaction"
)

type interactionRepo struct{ s *Store }

func (r *interactionRepo) Append(ctx context.Context, i *interaction.Interaction) error {
	return r.s.withTx(ctx, func(tx dialect.Tx) error {
		return r.s.insertInteraction(ctx, tx, i)
	})
}

// insertInteraction assigns an ID when empty and the next sequence, then
// stores i inside tx.
func (s *Store) insertInteraction(ctx context.Context, tx dialect.Tx, i *interaction.Interaction) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	seq, err := s.seq.Next(ctx, tx)
	if err != nil {
		return err
	}
	var payload any
	if len(i.Payload) > 0 {
		payload = string(i.Payload)
	}
	ins := sqlite.Insert(tableInteractions).
		Columns("id", "sequence", "learner_id", "notebook_id", "session_id", "event_type", "skill_id", "payload", "created_at").
		Values(i.ID, seq, i.LearnerID, i.NotebookID, nullString(i.SessionID), string(i.EventType), nullString(i.SkillID), payload, i.CreatedAt.UTC())
	if err := exec(ctx, tx, ins); err != nil {
		return fmt.Errorf("save interaction: %w", err)
	}
	i.Sequence = seq
	return nil
}

func (r *interactionRepo) List(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]interaction.Interaction, error) {
	var out []interaction.Interaction
	sel := sqlite.Select("id", "sequence", "session_id", "event_type", "skill_id", "payload", "created_at").
		From(sqlite.Table(tableInteractions)).
		Where(entsql.And(learnerPredicate(learnerID, notebookID), entsql.GT("sequence", opts.After))).
		OrderBy(entsql.Desc("sequence"))
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		if opts.Limit > 0 && len(out) == opts.Limit {
			return nil
		}
		it := interaction.Interaction{LearnerID: learnerID, NotebookID: notebookID}
		var (
			sessionID, skillID, payload sql.NullString
			eventType                   string
		)
		if err := rows.Scan(&it.ID, &it.Sequence, &sessionID, &eventType, &skillID, &payload, &it.CreatedAt); err != nil {
			return err
		}
		it.CreatedAt = it.CreatedAt.UTC()
		if !opts.inRange(it.CreatedAt) {
			return nil
		}
		it.SessionID = sessionID.String
		it.SkillID = skillID.String
		it.EventType = interaction.EventType(eventType)
		if payload.Valid {
			it.Payload = json.RawMessage(payload.String)
		}
		out = append(out, it)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}

// LastActivity scans creation times rather than taking the highest
// sequence, since imported or backdated events can arrive out of order.
func (r *interactionRepo) LastActivity(ctx context.Context, learnerID, notebookID string) (*time.Time, error) {
	var last *time.Time
	sel := sqlite.Select("created_at").
		From(sqlite.Table(tableInteractions)).
		Where(learnerPredicate(learnerID, notebookID))
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return err
		}
		t = t.UTC()
		if last == nil || t.After(*last) {
			last = &t
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query last activity: %w", err)
	}
	return last, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
