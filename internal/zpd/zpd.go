// Package zpd selects the skills a learner is ready to attempt next.
package zpd

import (
	"sort"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/skillgraph"
)

// Candidate is a skill inside the learner's zone of proximal development.
type Candidate struct {
	Skill                 skillgraph.SkillNode `json:"skill"`
	ReadinessScore        float64              `json:"readiness_score"`
	PrerequisitesMastered []string             `json:"prerequisites_mastered"`
	PrerequisitesPending  []string             `json:"prerequisites_pending"`
}

// Select returns every skill that is not yet mastered and whose required
// prerequisites are all mastered. Skills with no stored state count as
// not started.
//
// ReadinessScore is the mean mastery probability over the non-required
// prerequisites and only ranks candidates; it is 1 when there are none.
// An unpracticed non-required prerequisite contributes prior(skill).
// Candidates are ordered by readiness descending, then difficulty
// ascending, then skill ID.
func Select(g *skillgraph.Graph, states map[string]mastery.LearnerSkillState, prior func(skillgraph.SkillNode) float64) []Candidate {
	if prior == nil {
		prior = func(skillgraph.SkillNode) float64 { return mastery.DefaultParams().PL0 }
	}
	var out []Candidate
	for _, skill := range g.TopologicalOrder() {
		if st, ok := states[skill.ID]; ok && st.IsMastered() {
			continue
		}
		c := Candidate{Skill: skill}
		gated := false
		var sum float64
		var optional int
		for _, e := range g.Prerequisites(skill.ID) {
			st, ok := states[e.Skill.ID]
			mastered := ok && st.IsMastered()
			if mastered {
				c.PrerequisitesMastered = append(c.PrerequisitesMastered, e.Skill.ID)
			} else {
				c.PrerequisitesPending = append(c.PrerequisitesPending, e.Skill.ID)
			}
			if e.Strength == skillgraph.StrengthRequired {
				if !mastered {
					gated = true
				}
				continue
			}
			optional++
			if ok {
				sum += st.PMastery
			} else {
				sum += prior(e.Skill)
			}
		}
		if gated {
			continue
		}
		c.ReadinessScore = 1
		if optional > 0 {
			c.ReadinessScore = sum / float64(optional)
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ReadinessScore != b.ReadinessScore {
			return a.ReadinessScore > b.ReadinessScore
		}
		if a.Skill.Difficulty != b.Skill.Difficulty {
			return a.Skill.Difficulty < b.Skill.Difficulty
		}
		return a.Skill.ID < b.Skill.ID
	})
	return out
}

// IDs returns the skill IDs of the candidates in order.
func IDs(cs []Candidate) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.Skill.ID
	}
	return ids
}
