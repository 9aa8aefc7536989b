package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillpath/internal/analytics"
	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/scaffold"
)

type skillStateRepo struct{ s *Store }

var stateColumns = []string{
	"learner_id", "notebook_id", "skill_id", "p_mastery",
	"p_l0", "p_t", "p_s", "p_g",
	"status", "mastery_threshold",
	"total_attempts", "correct_attempts", "consecutive_successes",
	"ease_factor", "interval_days", "repetitions", "next_review_at", "last_reviewed_at",
	"scaffold_level", "mastered_at", "updated_at",
}

func stateValues(st mastery.LearnerSkillState) []any {
	return []any{
		st.LearnerID, st.NotebookID, st.SkillID, st.PMastery,
		st.Params.PL0, st.Params.PT, st.Params.PS, st.Params.PG,
		string(st.Status), st.MasteryThreshold,
		st.TotalAttempts, st.CorrectAttempts, st.ConsecutiveSuccesses,
		st.Review.EaseFactor, st.Review.IntervalDays, st.Review.Repetitions,
		nullTime(st.Review.NextReviewAt), nullTime(st.Review.LastReviewedAt),
		int(st.ScaffoldLevel), nullTime(st.MasteredAt), st.UpdatedAt.UTC(),
	}
}

func scanState(rows *entsql.Rows) (mastery.LearnerSkillState, error) {
	var (
		st                     mastery.LearnerSkillState
		status                 string
		level                  int
		next, last, masteredAt sql.NullTime
	)
	err := rows.Scan(
		&st.LearnerID, &st.NotebookID, &st.SkillID, &st.PMastery,
		&st.Params.PL0, &st.Params.PT, &st.Params.PS, &st.Params.PG,
		&status, &st.MasteryThreshold,
		&st.TotalAttempts, &st.CorrectAttempts, &st.ConsecutiveSuccesses,
		&st.Review.EaseFactor, &st.Review.IntervalDays, &st.Review.Repetitions, &next, &last,
		&level, &masteredAt, &st.UpdatedAt,
	)
	if err != nil {
		return st, err
	}
	st.Status = mastery.Status(status)
	st.ScaffoldLevel = scaffold.Level(level)
	st.Review.NextReviewAt = timePtr(next)
	st.Review.LastReviewedAt = timePtr(last)
	st.MasteredAt = timePtr(masteredAt)
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, nil
}

func keyPredicate(key StateKey) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("learner_id", key.LearnerID),
		entsql.EQ("notebook_id", key.NotebookID),
		entsql.EQ("skill_id", key.SkillID),
	)
}

func learnerPredicate(learnerID, notebookID string) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("learner_id", learnerID),
		entsql.EQ("notebook_id", notebookID),
	)
}

func getState(ctx context.Context, eq dialect.ExecQuerier, key StateKey) (*mastery.LearnerSkillState, error) {
	var found *mastery.LearnerSkillState
	sel := sqlite.Select(stateColumns...).
		From(sqlite.Table(tableSkillStates)).
		Where(keyPredicate(key)).
		Limit(1)
	err := query(ctx, eq, sel, func(rows *entsql.Rows) error {
		st, err := scanState(rows)
		if err != nil {
			return err
		}
		found = &st
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query skill state: %w", err)
	}
	return found, nil
}

func (r *skillStateRepo) Get(ctx context.Context, key StateKey) (*mastery.LearnerSkillState, error) {
	return getState(ctx, r.s.drv, key)
}

func (r *skillStateRepo) List(ctx context.Context, learnerID, notebookID string) ([]mastery.LearnerSkillState, error) {
	var out []mastery.LearnerSkillState
	sel := sqlite.Select(stateColumns...).
		From(sqlite.Table(tableSkillStates)).
		Where(learnerPredicate(learnerID, notebookID)).
		OrderBy("skill_id")
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		st, err := scanState(rows)
		if err != nil {
			return err
		}
		out = append(out, st)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query skill states: %w", err)
	}
	return out, nil
}

func (r *skillStateRepo) Learners(ctx context.Context, notebookID string) ([]string, error) {
	var ids []string
	sel := sqlite.Select("learner_id").Distinct().
		From(sqlite.Table(tableSkillStates)).
		Where(entsql.EQ("notebook_id", notebookID)).
		OrderBy("learner_id")
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query learners: %w", err)
	}
	return ids, nil
}

func (r *skillStateRepo) Update(ctx context.Context, key StateKey, fn UpdateFunc) (mastery.LearnerSkillState, error) {
	return r.Record(ctx, key, nil, fn)
}

func (r *skillStateRepo) Record(ctx context.Context, key StateKey, it *interaction.Interaction, fn UpdateFunc) (mastery.LearnerSkillState, error) {
	var next mastery.LearnerSkillState
	err := r.s.withTx(ctx, func(tx dialect.Tx) error {
		if it != nil {
			if err := r.s.insertInteraction(ctx, tx, it); err != nil {
				return err
			}
		}
		cur, err := getState(ctx, tx, key)
		if err != nil {
			return err
		}
		st, tr, err := fn(cur)
		if err != nil {
			return err
		}
		if st.LearnerID != key.LearnerID || st.NotebookID != key.NotebookID || st.SkillID != key.SkillID {
			return fmt.Errorf("update skill state: state key %s/%s/%s does not match %s/%s/%s",
				st.LearnerID, st.NotebookID, st.SkillID, key.LearnerID, key.NotebookID, key.SkillID)
		}

		upsert := sqlite.Insert(tableSkillStates).
			Columns(stateColumns...).
			Values(stateValues(st)...).
			OnConflict(
				entsql.ConflictColumns("learner_id", "notebook_id", "skill_id"),
				entsql.ResolveWithNewValues(),
			)
		if err := exec(ctx, tx, upsert); err != nil {
			return fmt.Errorf("save skill state: %w", err)
		}

		point := sqlite.Insert(tableHistory).
			Columns("learner_id", "notebook_id", "skill_id", "p_mastery", "recorded_at").
			Values(st.LearnerID, st.NotebookID, st.SkillID, st.PMastery, st.UpdatedAt.UTC())
		if err := exec(ctx, tx, point); err != nil {
			return fmt.Errorf("save mastery history: %w", err)
		}

		if tr != nil {
			if err := r.appendTransition(ctx, tx, st.NotebookID, *tr, st.UpdatedAt); err != nil {
				return err
			}
		}
		next = st
		return nil
	})
	return next, err
}

func (r *skillStateRepo) appendTransition(ctx context.Context, tx dialect.Tx, notebookID string, tr mastery.StateTransition, at time.Time) error {
	seq, err := r.s.seq.Next(ctx, tx)
	if err != nil {
		return err
	}
	ins := sqlite.Insert(tableMasteryEvents).
		Columns("sequence", "learner_id", "notebook_id", "skill_id", "from_status", "to_status", "transition_trigger", "p_mastery", "created_at").
		Values(seq, tr.LearnerID, notebookID, tr.SkillID, string(tr.From), string(tr.To), tr.Trigger, tr.PMastery, at.UTC())
	if err := exec(ctx, tx, ins); err != nil {
		return fmt.Errorf("save mastery event: %w", err)
	}
	return nil
}

func (r *skillStateRepo) History(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]analytics.MasteryPoint, error) {
	var out []analytics.MasteryPoint
	sel := sqlite.Select("skill_id", "p_mastery", "recorded_at").
		From(sqlite.Table(tableHistory)).
		Where(learnerPredicate(learnerID, notebookID)).
		OrderBy("id")
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		p := analytics.MasteryPoint{LearnerID: learnerID}
		if err := rows.Scan(&p.SkillID, &p.PMastery, &p.RecordedAt); err != nil {
			return err
		}
		p.RecordedAt = p.RecordedAt.UTC()
		if opts.inRange(p.RecordedAt) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query mastery history: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[len(out)-opts.Limit:]
	}
	return out, nil
}

func (r *skillStateRepo) Transitions(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]MasteryEvent, error) {
	var out []MasteryEvent
	sel := sqlite.Select("sequence", "skill_id", "from_status", "to_status", "transition_trigger", "p_mastery", "created_at").
		From(sqlite.Table(tableMasteryEvents)).
		Where(entsql.And(learnerPredicate(learnerID, notebookID), entsql.GT("sequence", opts.After))).
		OrderBy("sequence")
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		e := MasteryEvent{NotebookID: notebookID}
		e.LearnerID = learnerID
		var from, to string
		if err := rows.Scan(&e.Sequence, &e.SkillID, &from, &to, &e.Trigger, &e.PMastery, &e.CreatedAt); err != nil {
			return err
		}
		e.From, e.To = mastery.Status(from), mastery.Status(to)
		e.CreatedAt = e.CreatedAt.UTC()
		if opts.inRange(e.CreatedAt) {
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query mastery events: %w", err)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[len(out)-opts.Limit:]
	}
	return out, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
