package skillgraph

import (
	"fmt"
	"slices"
	"sort"
)

// Edge is a prerequisite as seen from the dependent skill.
type Edge struct {
	Skill    SkillNode
	Strength Strength
}

// Graph holds a notebook's skill DAG with precomputed indices.
// A Graph is immutable after New and safe for concurrent reads.
type Graph struct {
	skills     []SkillNode
	byID       map[string]*SkillNode
	prereqs    map[string][]Prerequisite
	dependents map[string][]string
	roots      []SkillNode
	topoOrder  []SkillNode
	topoIndex  map[string]int
}

// New validates the skills and prerequisite edges and builds the graph.
func New(skills []SkillNode, edges []Prerequisite) (*Graph, error) {
	if err := validate(skills, edges); err != nil {
		return nil, err
	}
	return build(skills, edges), nil
}

// build constructs the graph indices including topological order (Kahn's algorithm).
func build(skills []SkillNode, edges []Prerequisite) *Graph {
	gr := &Graph{
		skills:     slices.Clone(skills),
		byID:       make(map[string]*SkillNode, len(skills)),
		prereqs:    make(map[string][]Prerequisite),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(skills)),
	}

	for i := range gr.skills {
		gr.byID[gr.skills[i].ID] = &gr.skills[i]
	}

	for _, e := range edges {
		gr.prereqs[e.ToSkillID] = append(gr.prereqs[e.ToSkillID], e)
		gr.dependents[e.FromSkillID] = append(gr.dependents[e.FromSkillID], e.ToSkillID)
	}
	for id := range gr.prereqs {
		sort.Slice(gr.prereqs[id], func(i, j int) bool {
			return gr.prereqs[id][i].FromSkillID < gr.prereqs[id][j].FromSkillID
		})
	}

	inDegree := make(map[string]int, len(gr.skills))
	for _, s := range gr.skills {
		inDegree[s.ID] = len(gr.prereqs[s.ID])
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	// Sort initial queue for deterministic ordering
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		gr.topoOrder = append(gr.topoOrder, *gr.byID[id])

		deps := slices.Clone(gr.dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	for i, s := range gr.topoOrder {
		gr.topoIndex[s.ID] = i
	}

	for _, s := range gr.topoOrder {
		if len(gr.prereqs[s.ID]) == 0 {
			gr.roots = append(gr.roots, s)
		}
	}

	return gr
}

// Len returns the number of skills in the graph.
func (g *Graph) Len() int {
	return len(g.skills)
}

// Skill returns a skill by ID.
func (g *Graph) Skill(id string) (SkillNode, bool) {
	s, ok := g.byID[id]
	if !ok {
		return SkillNode{}, false
	}
	return *s, true
}

// GetSkill returns a skill by ID, or error if not found.
func (g *Graph) GetSkill(id string) (SkillNode, error) {
	s, ok := g.byID[id]
	if !ok {
		return SkillNode{}, fmt.Errorf("skill not found: %q", id)
	}
	return *s, nil
}

// Skills returns all skills in insertion order.
func (g *Graph) Skills() []SkillNode {
	return slices.Clone(g.skills)
}

// Edges returns every prerequisite edge in the graph, ordered by dependent
// then prerequisite ID.
func (g *Graph) Edges() []Prerequisite {
	var out []Prerequisite
	for _, s := range g.topoOrder {
		out = append(out, g.prereqs[s.ID]...)
	}
	return out
}

// Prerequisites returns the direct prerequisites of a skill with their strengths.
func (g *Graph) Prerequisites(id string) []Edge {
	edges := g.prereqs[id]
	result := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if p, ok := g.byID[e.FromSkillID]; ok {
			result = append(result, Edge{Skill: *p, Strength: e.Strength})
		}
	}
	return result
}

// Dependents returns skills that directly depend on the given skill ID.
func (g *Graph) Dependents(id string) []SkillNode {
	depIDs := g.dependents[id]
	result := make([]SkillNode, 0, len(depIDs))
	for _, depID := range depIDs {
		if s, ok := g.byID[depID]; ok {
			result = append(result, *s)
		}
	}
	return result
}

// Roots returns all skills with no prerequisites, in topological order.
func (g *Graph) Roots() []SkillNode {
	return slices.Clone(g.roots)
}

// TopologicalOrder returns all skills in a valid topological order.
func (g *Graph) TopologicalOrder() []SkillNode {
	return slices.Clone(g.topoOrder)
}

// TopoIndex returns the position of a skill in the topological order, or -1.
func (g *Graph) TopoIndex(id string) int {
	if i, ok := g.topoIndex[id]; ok {
		return i
	}
	return -1
}
