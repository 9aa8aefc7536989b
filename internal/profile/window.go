// Package profile computes the inverse learner profile: five independent
// dimensions inferred from a bounded window of interactions, sessions and
// mastery states, each with its own sample-size gate and confidence.
package profile

import (
	"slices"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/skillgraph"
)

// Window is the input of a profile computation. The dimension functions
// never modify it.
type Window struct {
	LearnerID    string
	NotebookID   string
	Interactions []interaction.Interaction
	Sessions     []session.Session
	States       []mastery.LearnerSkillState

	// Graph is optional. Without it the knowledge dimension has no ZPD
	// list and attempts without a payload difficulty have no bucket.
	Graph *skillgraph.Graph

	// Prior is the mastery prior of untouched skills when ranking ZPD
	// candidates. Nil means the default prior.
	Prior func(skillgraph.SkillNode) float64

	Now time.Time

	// Location is used for time-of-day and day-of-week histograms.
	// Nil means UTC.
	Location *time.Location
}

// attempt is a practice attempt with whether any hint was used on it.
type attempt struct {
	interaction.Attempt
	assisted bool
}

func (w Window) sorted() []interaction.Interaction {
	is := slices.Clone(w.Interactions)
	interaction.SortByTime(is)
	return is
}

// attempts decodes the practice attempts in time order. An attempt counts
// as assisted if its payload reports hints, or if a hint was requested on
// the same skill since the learner's previous attempt on that skill.
func (w Window) attempts() []attempt {
	is := w.sorted()
	pending := map[string]bool{}
	var out []attempt
	for _, i := range is {
		switch i.EventType {
		case interaction.EventHintRequested:
			pending[i.SkillID] = true
		case interaction.EventPracticeAttempt:
			pa, err := i.PracticeAttempt()
			if err != nil {
				continue
			}
			out = append(out, attempt{
				Attempt: interaction.Attempt{
					InteractionID:   i.ID,
					SkillID:         i.SkillID,
					SessionID:       i.SessionID,
					At:              i.CreatedAt,
					PracticeAttempt: pa,
				},
				assisted: pa.HintsUsed > 0 || pending[i.SkillID],
			})
			delete(pending, i.SkillID)
		}
	}
	return out
}

// difficulty returns the attempt's difficulty from its payload, falling
// back to the skill's difficulty in the graph.
func (w Window) difficulty(a attempt) *float64 {
	if a.Difficulty != nil {
		return a.Difficulty
	}
	if w.Graph == nil {
		return nil
	}
	if s, ok := w.Graph.Skill(a.SkillID); ok {
		d := s.Difficulty
		return &d
	}
	return nil
}

func (w Window) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

func ptr[T any](v T) *T { return &v }

// weeksSpanned returns the span between first and last in weeks, never
// less than one.
func weeksSpanned(first, last time.Time) float64 {
	w := last.Sub(first).Hours() / (24 * 7)
	if w < 1 {
		return 1
	}
	return w
}
