package skillgraph

import (
	"fmt"
	"strings"
)

// validate performs all structural checks on the given skills and edges.
// Returns a combined error describing all problems found, or nil if valid.
func validate(skills []SkillNode, edges []Prerequisite) error {
	var errs []string

	idSet := make(map[string]bool, len(skills))

	for _, s := range skills {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
			continue
		}
		if idSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		idSet[s.ID] = true

		if !(s.Difficulty >= 0 && s.Difficulty <= 1) {
			errs = append(errs, fmt.Sprintf("skill %q: difficulty must be in [0, 1], got %g", s.ID, s.Difficulty))
		}
		if s.BloomLevel != 0 && (s.BloomLevel < BloomRemember || s.BloomLevel > BloomCreate) {
			errs = append(errs, fmt.Sprintf("skill %q: bloom level must be in [1, 6], got %d", s.ID, s.BloomLevel))
		}
		if s.BKT != nil {
			params := []struct {
				name string
				v    float64
			}{{"pl0", s.BKT.PL0}, {"pt", s.BKT.PT}, {"ps", s.BKT.PS}, {"pg", s.BKT.PG}}
			for _, p := range params {
				if !(p.v >= 0 && p.v <= 1) {
					errs = append(errs, fmt.Sprintf("skill %q: bkt.%s must be in [0, 1], got %g", s.ID, p.name, p.v))
				}
			}
		}
	}

	seenEdge := make(map[[2]string]bool, len(edges))
	for _, e := range edges {
		if !idSet[e.FromSkillID] {
			errs = append(errs, fmt.Sprintf("skill %q references nonexistent prerequisite %q", e.ToSkillID, e.FromSkillID))
		}
		if !idSet[e.ToSkillID] {
			errs = append(errs, fmt.Sprintf("prerequisite %q points at nonexistent skill %q", e.FromSkillID, e.ToSkillID))
		}
		if e.FromSkillID == e.ToSkillID {
			errs = append(errs, fmt.Sprintf("skill %q lists itself as a prerequisite", e.ToSkillID))
		}
		if !e.Strength.Valid() {
			errs = append(errs, fmt.Sprintf("edge %q -> %q: unknown strength %q", e.FromSkillID, e.ToSkillID, e.Strength))
		}
		key := [2]string{e.FromSkillID, e.ToSkillID}
		if seenEdge[key] {
			errs = append(errs, fmt.Sprintf("duplicate edge %q -> %q", e.FromSkillID, e.ToSkillID))
		}
		seenEdge[key] = true
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(skills))
	adjList := make(map[string][]string)
	for _, s := range skills {
		inDegree[s.ID] += 0
	}
	for _, e := range edges {
		if !idSet[e.FromSkillID] || !idSet[e.ToSkillID] {
			continue
		}
		inDegree[e.ToSkillID]++
		adjList[e.FromSkillID] = append(adjList[e.FromSkillID], e.ToSkillID)
	}

	var queue []string
	for _, s := range skills {
		if inDegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(idSet) {
		var cycleNodes []string
		for _, s := range skills {
			if inDegree[s.ID] > 0 {
				cycleNodes = append(cycleNodes, s.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving skills: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
