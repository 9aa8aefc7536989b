package graphsource

import (
	"github.com/abhisek/skillpath/internal/skillgraph"
)

// graphRows are raw Neo4j records keyed by the RETURN aliases.
type graphRows struct {
	skills []map[string]any
	edges  []map[string]any
}

func (r graphRows) decode(notebookID string) ([]skillgraph.SkillNode, []skillgraph.Prerequisite) {
	skills := make([]skillgraph.SkillNode, 0, len(r.skills))
	for _, m := range r.skills {
		skills = append(skills, skillgraph.SkillNode{
			ID:                 asString(m["id"]),
			NotebookID:         notebookID,
			Name:               asString(m["name"]),
			BloomLevel:         skillgraph.BloomLevel(asInt(m["bloom_level"])),
			Difficulty:         asFloat(m["difficulty"]),
			IsThresholdConcept: asBool(m["is_threshold_concept"]),
		})
	}
	edges := make([]skillgraph.Prerequisite, 0, len(r.edges))
	for _, m := range r.edges {
		strength := skillgraph.Strength(asString(m["strength"]))
		if strength == "" {
			strength = skillgraph.StrengthRequired
		}
		edges = append(edges, skillgraph.Prerequisite{
			FromSkillID: asString(m["from_id"]),
			ToSkillID:   asString(m["to_id"]),
			Strength:    strength,
		})
	}
	return skills, edges
}

func encodeGraph(notebookID string, skills []skillgraph.SkillNode, edges []skillgraph.Prerequisite) (nodes, rels []map[string]any) {
	nodes = make([]map[string]any, 0, len(skills))
	for i, s := range skills {
		nodes = append(nodes, map[string]any{
			"id":                   s.ID,
			"notebook_id":          notebookID,
			"name":                 s.Name,
			"bloom_level":          int64(s.BloomLevel),
			"difficulty":           s.Difficulty,
			"is_threshold_concept": s.IsThresholdConcept,
			"sort_index":           int64(i),
		})
	}
	rels = make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		rels = append(rels, map[string]any{
			"from_id":  e.FromSkillID,
			"to_id":    e.ToSkillID,
			"strength": string(e.Strength),
		})
	}
	return nodes, rels
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Neo4j returns integers as int64 and floats as float64.
func asInt(v any) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	}
	return 0
}
