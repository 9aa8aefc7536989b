package tutor

import (
	"context"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/planner"
	"github.com/abhisek/skillpath/internal/skillgraph"
	"github.com/abhisek/skillpath/internal/spacedrep"
	"github.com/abhisek/skillpath/internal/store"
	"github.com/abhisek/skillpath/internal/zpd"
)

// SkillState is a stored state with the skill it belongs to, for dashboards.
type SkillState struct {
	Skill skillgraph.SkillNode      `json:"skill"`
	State mastery.LearnerSkillState `json:"state"`
}

// States returns a learner's state for every skill in the notebook graph,
// in topological order. Skills never practiced get their untouched state.
func (s *Service) States(ctx context.Context, learnerID, notebookID string) ([]SkillState, error) {
	g, states, ns, err := s.learnerView(ctx, learnerID, notebookID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]SkillState, 0, g.Len())
	for _, sk := range g.TopologicalOrder() {
		st, ok := states[sk.ID]
		if !ok {
			st = mastery.NewState(learnerID, notebookID, sk.ID, ns.Mastery.ParamsFor(sk), ns.Mastery.ThresholdFor(sk), now)
			st.ScaffoldLevel = ns.Scaffold.Level(st.PMastery)
		}
		out = append(out, SkillState{Skill: sk, State: st})
	}
	return out, nil
}

// DueReviews returns skills due for review, most overdue first.
func (s *Service) DueReviews(ctx context.Context, learnerID, notebookID string) ([]spacedrep.DueSkill, error) {
	states, err := s.stateList(ctx, learnerID, notebookID)
	if err != nil {
		return nil, err
	}
	items := make([]spacedrep.Item, 0, len(states))
	for _, st := range states {
		items = append(items, spacedrep.Item{SkillID: st.SkillID, Schedule: st.Review})
	}
	return spacedrep.DueSkills(items, s.now()), nil
}

// NextSkills returns the skills in the learner's zone of proximal
// development, most ready first.
func (s *Service) NextSkills(ctx context.Context, learnerID, notebookID string) ([]zpd.Candidate, error) {
	g, states, ns, err := s.learnerView(ctx, learnerID, notebookID)
	if err != nil {
		return nil, err
	}
	return zpd.Select(g, states, priorFor(ns.Mastery)), nil
}

// Recommendation is the next practice decision.
type Recommendation struct {
	Slot  *planner.Slot `json:"slot"`
	Found bool          `json:"found"`
}

// Recommend picks the next skill and the support to offer on it.
func (s *Service) Recommend(ctx context.Context, learnerID, notebookID string) (Recommendation, error) {
	in, err := s.plannerInput(ctx, learnerID, notebookID)
	if err != nil {
		return Recommendation{}, err
	}
	slot, ok := planner.Recommend(in)
	if !ok {
		return Recommendation{}, nil
	}
	return Recommendation{Slot: &slot, Found: true}, nil
}

// Plan builds a practice session plan with up to total slots.
func (s *Service) Plan(ctx context.Context, learnerID, notebookID string, total int) (planner.Plan, error) {
	in, err := s.plannerInput(ctx, learnerID, notebookID)
	if err != nil {
		return planner.Plan{}, err
	}
	return planner.BuildPlan(in, total), nil
}

func (s *Service) plannerInput(ctx context.Context, learnerID, notebookID string) (planner.Input, error) {
	g, states, ns, err := s.learnerView(ctx, learnerID, notebookID)
	if err != nil {
		return planner.Input{}, err
	}
	return planner.Input{
		Graph:      g,
		States:     states,
		Thresholds: ns.Scaffold,
		Prior:      priorFor(ns.Mastery),
		Now:        s.now(),
	}, nil
}

// learnerView loads the graph, the learner's states keyed by skill and the
// notebook settings.
func (s *Service) learnerView(ctx context.Context, learnerID, notebookID string) (*skillgraph.Graph, map[string]mastery.LearnerSkillState, store.NotebookSettings, error) {
	g, err := s.Graph(ctx, notebookID)
	if err != nil {
		return nil, nil, store.NotebookSettings{}, err
	}
	ns, err := s.Settings(ctx, notebookID)
	if err != nil {
		return nil, nil, ns, err
	}
	list, err := s.stateList(ctx, learnerID, notebookID)
	if err != nil {
		return nil, nil, ns, err
	}
	states := make(map[string]mastery.LearnerSkillState, len(list))
	for _, st := range list {
		states[st.SkillID] = st
	}
	return g, states, ns, nil
}

func (s *Service) stateList(ctx context.Context, learnerID, notebookID string) ([]mastery.LearnerSkillState, error) {
	if learnerID == "" || notebookID == "" {
		return nil, invalidInput("learner_id", "learner and notebook are required")
	}
	list, err := s.repos.States.List(ctx, learnerID, notebookID)
	if err != nil {
		s.log.Warn("skill state read failed", "learner_id", learnerID, "notebook_id", notebookID, "error", err)
		return nil, unavailable(FeatureStates, err)
	}
	return list, nil
}

func priorFor(cfg mastery.Config) func(skillgraph.SkillNode) float64 {
	return func(sk skillgraph.SkillNode) float64 {
		return cfg.ParamsFor(sk).PL0
	}
}
