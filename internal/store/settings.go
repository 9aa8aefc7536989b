package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type settingsRepo struct{ s *Store }

func (r *settingsRepo) Get(ctx context.Context, notebookID string) (*NotebookSettings, error) {
	var found *NotebookSettings
	sel := sqlite.Select("data").
		From(sqlite.Table(tableSettings)).
		Where(entsql.EQ("notebook_id", notebookID)).
		Limit(1)
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		var ns NotebookSettings
		if err := json.Unmarshal([]byte(data), &ns); err != nil {
			return fmt.Errorf("unmarshal settings: %w", err)
		}
		found = &ns
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return found, nil
}

func (r *settingsRepo) Save(ctx context.Context, ns NotebookSettings) error {
	data, err := json.Marshal(ns)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	upsert := sqlite.Insert(tableSettings).
		Columns("notebook_id", "data", "updated_at").
		Values(ns.NotebookID, string(data), ns.UpdatedAt.UTC()).
		OnConflict(entsql.ConflictColumns("notebook_id"), entsql.ResolveWithNewValues())
	if err := exec(ctx, r.s.drv, upsert); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
