package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillpath/internal/skillgraph"
)

type graphRepo struct{ s *Store }

func (r *graphRepo) SaveGraph(ctx context.Context, notebookID string, skills []skillgraph.SkillNode, edges []skillgraph.Prerequisite) error {
	return r.s.withTx(ctx, func(tx dialect.Tx) error {
		byNotebook := entsql.EQ("notebook_id", notebookID)
		if err := exec(ctx, tx, sqlite.Delete(tablePrereqs).Where(byNotebook)); err != nil {
			return fmt.Errorf("clear prerequisites: %w", err)
		}
		if err := exec(ctx, tx, sqlite.Delete(tableSkills).Where(entsql.EQ("notebook_id", notebookID))); err != nil {
			return fmt.Errorf("clear skills: %w", err)
		}

		for i, sk := range skills {
			irt, err := nullJSON(sk.IRT)
			if err != nil {
				return fmt.Errorf("marshal irt for %q: %w", sk.ID, err)
			}
			bkt, err := nullJSON(sk.BKT)
			if err != nil {
				return fmt.Errorf("marshal bkt for %q: %w", sk.ID, err)
			}
			ins := sqlite.Insert(tableSkills).
				Columns("notebook_id", "id", "name", "bloom_level", "difficulty", "is_threshold_concept", "irt", "bkt", "position").
				Values(notebookID, sk.ID, sk.Name, int(sk.BloomLevel), sk.Difficulty, sk.IsThresholdConcept, irt, bkt, i)
			if err := exec(ctx, tx, ins); err != nil {
				return fmt.Errorf("save skill %q: %w", sk.ID, err)
			}
		}
		for _, e := range edges {
			ins := sqlite.Insert(tablePrereqs).
				Columns("notebook_id", "from_skill_id", "to_skill_id", "strength").
				Values(notebookID, e.FromSkillID, e.ToSkillID, string(e.Strength))
			if err := exec(ctx, tx, ins); err != nil {
				return fmt.Errorf("save prerequisite %q -> %q: %w", e.FromSkillID, e.ToSkillID, err)
			}
		}
		return nil
	})
}

func (r *graphRepo) LoadGraph(ctx context.Context, notebookID string) ([]skillgraph.SkillNode, []skillgraph.Prerequisite, error) {
	var skills []skillgraph.SkillNode
	sel := sqlite.Select("id", "name", "bloom_level", "difficulty", "is_threshold_concept", "irt", "bkt").
		From(sqlite.Table(tableSkills)).
		Where(entsql.EQ("notebook_id", notebookID)).
		OrderBy("position")
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var (
			sk       skillgraph.SkillNode
			bloom    int
			irt, bkt sql.NullString
		)
		if err := rows.Scan(&sk.ID, &sk.Name, &bloom, &sk.Difficulty, &sk.IsThresholdConcept, &irt, &bkt); err != nil {
			return err
		}
		sk.NotebookID = notebookID
		sk.BloomLevel = skillgraph.BloomLevel(bloom)
		if irt.Valid {
			sk.IRT = new(skillgraph.IRTParams)
			if err := json.Unmarshal([]byte(irt.String), sk.IRT); err != nil {
				return fmt.Errorf("decode irt for %q: %w", sk.ID, err)
			}
		}
		if bkt.Valid {
			sk.BKT = new(skillgraph.SkillParams)
			if err := json.Unmarshal([]byte(bkt.String), sk.BKT); err != nil {
				return fmt.Errorf("decode bkt for %q: %w", sk.ID, err)
			}
		}
		skills = append(skills, sk)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("query skills: %w", err)
	}

	var edges []skillgraph.Prerequisite
	sel = sqlite.Select("from_skill_id", "to_skill_id", "strength").
		From(sqlite.Table(tablePrereqs)).
		Where(entsql.EQ("notebook_id", notebookID)).
		OrderBy("to_skill_id", "from_skill_id")
	err = query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var (
			e        skillgraph.Prerequisite
			strength string
		)
		if err := rows.Scan(&e.FromSkillID, &e.ToSkillID, &strength); err != nil {
			return err
		}
		e.Strength = skillgraph.Strength(strength)
		edges = append(edges, e)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("query prerequisites: %w", err)
	}
	return skills, edges, nil
}

func (r *graphRepo) Notebooks(ctx context.Context) ([]string, error) {
	var ids []string
	sel := sqlite.Select("notebook_id").Distinct().
		From(sqlite.Table(tableSkills)).
		OrderBy("notebook_id")
	err := query(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query notebooks: %w", err)
	}
	return ids, nil
}

// nullJSON marshals v, mapping a nil pointer to SQL NULL.
func nullJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
