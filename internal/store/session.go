package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillpath/internal/session"
)

type sessionRepo struct{ s *Store }

var sessionColumns = []string{"id", "learner_id", "notebook_id", "started_at", "ended_at", "duration_ms", "skills_practiced"}

func (r *sessionRepo) Save(ctx context.Context, s session.Session) error {
	skills := s.SkillsPracticed
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("marshal skills practiced: %w", err)
	}
	var duration any
	if s.DurationMs != nil {
		duration = *s.DurationMs
	}
	upsert := sqlite.Insert(tableSessions).
		Columns(sessionColumns...).
		Values(s.ID, s.LearnerID, s.NotebookID, s.StartedAt.UTC(), nullTime(s.EndedAt), duration, string(b)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := exec(ctx, r.s.drv, upsert); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func scanSession(rows *entsql.Rows) (session.Session, error) {
	var (
		s        session.Session
		ended    sql.NullTime
		duration sql.NullInt64
		skills   string
	)
	if err := rows.Scan(&s.ID, &s.LearnerID, &s.NotebookID, &s.StartedAt, &ended, &duration, &skills); err != nil {
		return s, err
	}
	s.StartedAt = s.StartedAt.UTC()
	s.EndedAt = timePtr(ended)
	if duration.Valid {
		d := duration.Int64
		s.DurationMs = &d
	}
	if err := json.Unmarshal([]byte(skills), &s.SkillsPracticed); err != nil {
		return s, fmt.Errorf("decode skills practiced: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*session.Session, error) {
	var found *session.Session
	sel := sqlite.Select(sessionColumns...).
		From(sqlite.Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Limit(1)
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		s, err := scanSession(rows)
		if err != nil {
			return err
		}
		found = &s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return found, nil
}

func (r *sessionRepo) List(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]session.Session, error) {
	var out []session.Session
	sel := sqlite.Select(sessionColumns...).
		From(sqlite.Table(tableSessions)).
		Where(learnerPredicate(learnerID, notebookID))
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		s, err := scanSession(rows)
		if err != nil {
			return err
		}
		if opts.inRange(s.StartedAt) {
			out = append(out, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	session.SortByStart(out)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[len(out)-opts.Limit:]
	}
	return out, nil
}
