// Package planner turns mastery states into the next practice decision and
// a practice session plan.
package planner

import (
	"sort"
	"time"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/skillgraph"
	"github.com/abhisek/skillpath/internal/spacedrep"
	"github.com/abhisek/skillpath/internal/zpd"
)

// Category is the reason a skill was chosen.
type Category string

const (
	CategoryFrontier Category = "frontier"
	CategoryReview   Category = "review"
	CategoryBooster  Category = "booster"
)

// Slot is one skill in a plan with the support to offer on it.
type Slot struct {
	SkillID       string           `json:"skill_id"`
	SkillName     string           `json:"skill_name"`
	Category      Category         `json:"category"`
	ScaffoldLevel scaffold.Level   `json:"scaffold_level"`
	Support       scaffold.Support `json:"support"`
	Reason        string           `json:"reason"`
}

// Plan is the ordered list of slots for a practice session.
type Plan struct {
	Slots []Slot `json:"slots"`
}

// Default slot mix: three frontier, one review and one booster slot.
const (
	DefaultTotalSlots = 5
	defaultReview     = 1
	defaultBooster    = 1
)

// Input is everything the planner reads.
type Input struct {
	Graph      *skillgraph.Graph
	States     map[string]mastery.LearnerSkillState
	Thresholds scaffold.Thresholds
	// Prior is the untouched mastery of a skill, used for skills with no
	// state. Nil means the default prior.
	Prior func(skillgraph.SkillNode) float64
	Now   time.Time
}

func (in Input) prior(s skillgraph.SkillNode) float64 {
	if in.Prior != nil {
		return in.Prior(s)
	}
	return mastery.DefaultParams().PL0
}

func (in Input) slot(id string, c Category, reason string) Slot {
	p := 0.0
	name := id
	if s, ok := in.Graph.Skill(id); ok {
		name = s.DisplayName()
		p = in.prior(s)
	}
	if st, ok := in.States[id]; ok {
		p = st.PMastery
	}
	lvl := in.Thresholds.Level(p)
	return Slot{SkillID: id, SkillName: name, Category: c, ScaffoldLevel: lvl, Support: lvl.Support(), Reason: reason}
}

// due returns due reviews among skills that are in the graph.
func (in Input) due() []spacedrep.DueSkill {
	items := make([]spacedrep.Item, 0, len(in.States))
	for id, st := range in.States {
		if _, ok := in.Graph.Skill(id); !ok {
			continue
		}
		items = append(items, spacedrep.Item{SkillID: id, Schedule: st.Review})
	}
	return spacedrep.DueSkills(items, in.Now)
}

// Recommend picks the single next skill: the most overdue review if any,
// otherwise the top ZPD candidate. It returns false when nothing is left
// to practice.
func Recommend(in Input) (Slot, bool) {
	if due := in.due(); len(due) > 0 {
		return in.slot(due[0].SkillID, CategoryReview, "review "+string(due[0].Status)), true
	}
	if cs := zpd.Select(in.Graph, in.States, in.Prior); len(cs) > 0 {
		return in.slot(cs[0].Skill.ID, CategoryFrontier, "prerequisites ready"), true
	}
	return Slot{}, false
}

// BuildPlan fills up to total slots (DefaultTotalSlots when total <= 0)
// with frontier skills, due reviews and boosters. Unused review or booster
// slots go to frontier skills and vice versa. A skill appears at most once.
func BuildPlan(in Input, total int) Plan {
	if total <= 0 {
		total = DefaultTotalSlots
	}
	reviewN, boosterN := defaultReview, defaultBooster
	frontierN := total - reviewN - boosterN
	if frontierN < 0 {
		frontierN, reviewN, boosterN = total, 0, 0
	}

	frontier := zpd.IDs(zpd.Select(in.Graph, in.States, in.Prior))
	var review []string
	for _, d := range in.due() {
		review = append(review, d.SkillID)
	}
	booster := boosters(in)

	used := map[string]bool{}
	var slots []Slot
	take := func(ids []string, n int, c Category, reason string) int {
		taken := 0
		for _, id := range ids {
			if taken == n {
				break
			}
			if used[id] {
				continue
			}
			used[id] = true
			slots = append(slots, in.slot(id, c, reason))
			taken++
		}
		return taken
	}

	gotReview := take(review, reviewN, CategoryReview, "due for review")
	gotFrontier := take(frontier, frontierN, CategoryFrontier, "prerequisites ready")
	gotBooster := take(booster, boosterN, CategoryBooster, "confidence booster")

	// Redistribute what could not be filled.
	spare := total - gotReview - gotFrontier - gotBooster
	if spare > 0 {
		spare -= take(frontier, spare, CategoryFrontier, "prerequisites ready")
	}
	if spare > 0 {
		spare -= take(review, spare, CategoryReview, "due for review")
	}
	if spare > 0 {
		take(booster, spare, CategoryBooster, "confidence booster")
	}
	return Plan{Slots: slots}
}

// boosters lists mastered skills by accuracy, highest first.
func boosters(in Input) []string {
	type cand struct {
		id  string
		acc float64
	}
	var cs []cand
	for id, st := range in.States {
		if !st.IsMastered() {
			continue
		}
		if _, ok := in.Graph.Skill(id); !ok {
			continue
		}
		acc := 0.0
		if a := st.Accuracy(); a != nil {
			acc = *a
		}
		cs = append(cs, cand{id, acc})
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].acc != cs[j].acc {
			return cs[i].acc > cs[j].acc
		}
		return cs[i].id < cs[j].id
	})
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.id
	}
	return ids
}
