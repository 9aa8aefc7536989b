// Package tutor wires the repositories to the learner model: it records
// practice, answers review and readiness queries, computes profiles and
// serves analytics.
package tutor

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/skillpath/internal/config"
	"github.com/abhisek/skillpath/internal/graphsource"
	"github.com/abhisek/skillpath/internal/logger"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/skillgraph"
	"github.com/abhisek/skillpath/internal/store"
)

// Feature names used in FeatureUnavailableError.
const (
	FeatureGraph        = "skill_graph"
	FeatureStates       = "skill_states"
	FeatureInteractions = "interactions"
	FeatureSessions     = "sessions"
	FeatureProfiles     = "profiles"
	FeatureSettings     = "settings"
	FeatureHistory      = "mastery_history"
)

// Repos are the repositories the service reads and writes.
type Repos struct {
	States       store.SkillStateRepo
	Interactions store.InteractionRepo
	Sessions     store.SessionRepo
	Profiles     store.ProfileRepo
	Settings     store.SettingsRepo
	Resetter     store.LearnerResetter
}

// FromStore returns the repositories of a SQLite store.
func FromStore(s *store.Store) Repos {
	return Repos{
		States:       s.SkillStateRepo(),
		Interactions: s.InteractionRepo(),
		Sessions:     s.SessionRepo(),
		Profiles:     s.ProfileRepo(),
		Settings:     s.SettingsRepo(),
		Resetter:     s,
	}
}

// Options are the service defaults. Notebook settings override the
// mastery, scaffold and fast-response values.
type Options struct {
	Mastery           mastery.Config
	Scaffold          scaffold.Thresholds
	FastResponseMs    int64
	ProfileWindow     time.Duration // 0 = all history
	MaxInteractions   int           // 0 = unlimited
	KeepProfiles      int
	CohortConcurrency int
	GraphCacheSize    int
	Location          *time.Location
	Now               func() time.Time
}

// DefaultOptions returns the options used without a config file.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig converts loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Mastery:           cfg.MasteryConfig(),
		Scaffold:          cfg.ScaffoldThresholds(),
		FastResponseMs:    cfg.Review.FastResponseMs,
		ProfileWindow:     time.Duration(cfg.Profile.WindowDays) * 24 * time.Hour,
		MaxInteractions:   cfg.Profile.MaxInteractions,
		KeepProfiles:      cfg.Profile.KeepVersions,
		CohortConcurrency: cfg.Cohort.Concurrency,
		GraphCacheSize:    cfg.Graph.CacheSize,
	}
}

// Service is the learner-model facade used by the CLI and the API.
type Service struct {
	repos  Repos
	graphs graphsource.Source
	cache  *lru.Cache[string, *skillgraph.Graph]
	opts   Options
	log    *logger.Logger
}

// New creates a service.
func New(repos Repos, graphs graphsource.Source, opts Options, log *logger.Logger) (*Service, error) {
	if opts.GraphCacheSize <= 0 {
		opts.GraphCacheSize = 64
	}
	if opts.CohortConcurrency <= 0 {
		opts.CohortConcurrency = 8
	}
	if opts.KeepProfiles <= 0 {
		opts.KeepProfiles = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	cache, err := lru.New[string, *skillgraph.Graph](opts.GraphCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create graph cache: %w", err)
	}
	return &Service{
		repos:  repos,
		graphs: graphs,
		cache:  cache,
		opts:   opts,
		log:    log.With("component", "tutor"),
	}, nil
}

func (s *Service) now() time.Time {
	return s.opts.Now().UTC()
}

// Graph returns the notebook's skill graph, from cache when possible.
func (s *Service) Graph(ctx context.Context, notebookID string) (*skillgraph.Graph, error) {
	if g, ok := s.cache.Get(notebookID); ok {
		return g, nil
	}
	g, err := s.graphs.Load(ctx, notebookID)
	if err != nil {
		s.log.Warn("graph load failed", "notebook_id", notebookID, "error", err)
		return nil, unavailable(FeatureGraph, err)
	}
	s.cache.Add(notebookID, g)
	return g, nil
}

// ImportGraph validates and stores a notebook's skill graph.
func (s *Service) ImportGraph(ctx context.Context, notebookID string, skills []skillgraph.SkillNode, edges []skillgraph.Prerequisite) (*skillgraph.Graph, error) {
	if notebookID == "" {
		return nil, invalidInput("notebook_id", "is required")
	}
	for i := range skills {
		skills[i].NotebookID = notebookID
	}
	g, err := skillgraph.New(skills, edges)
	if err != nil {
		return nil, &InvalidInputError{Field: "graph", Err: err}
	}
	w, ok := s.graphs.(graphsource.Writer)
	if !ok {
		return nil, unavailable(FeatureGraph, fmt.Errorf("graph source is read-only"))
	}
	if err := w.Save(ctx, notebookID, skills, edges); err != nil {
		return nil, unavailable(FeatureGraph, err)
	}
	s.cache.Remove(notebookID)
	s.log.Info("graph imported", "notebook_id", notebookID, "skills", g.Len(), "edges", len(edges))
	return g, nil
}

// Settings returns the effective settings of a notebook.
func (s *Service) Settings(ctx context.Context, notebookID string) (store.NotebookSettings, error) {
	ns, err := s.repos.Settings.Get(ctx, notebookID)
	if err != nil {
		return store.NotebookSettings{}, unavailable(FeatureSettings, err)
	}
	if ns != nil {
		return *ns, nil
	}
	return store.NotebookSettings{
		NotebookID:     notebookID,
		Mastery:        s.opts.Mastery,
		Scaffold:       s.opts.Scaffold,
		FastResponseMs: s.opts.FastResponseMs,
	}, nil
}

// SettingsUpdate changes some of a notebook's settings. Nil fields keep
// their current value.
type SettingsUpdate struct {
	Mastery        *mastery.Config
	Scaffold       *scaffold.Thresholds
	FastResponseMs *int64
}

// UpdateSettings validates the merged settings before storing them.
func (s *Service) UpdateSettings(ctx context.Context, notebookID string, up SettingsUpdate) (store.NotebookSettings, error) {
	ns, err := s.Settings(ctx, notebookID)
	if err != nil {
		return ns, err
	}
	if up.Mastery != nil {
		ns.Mastery = *up.Mastery
	}
	if up.Scaffold != nil {
		ns.Scaffold = *up.Scaffold
	}
	if up.FastResponseMs != nil {
		ns.FastResponseMs = *up.FastResponseMs
	}

	if err := ns.Mastery.Validate(); err != nil {
		return ns, &InvalidInputError{Field: "mastery", Err: err}
	}
	if err := ns.Scaffold.Validate(); err != nil {
		return ns, &InvalidInputError{Field: "scaffold_thresholds", Err: err}
	}
	if ns.FastResponseMs <= 0 {
		return ns, invalidInput("fast_response_ms", "must be positive, got %d", ns.FastResponseMs)
	}

	ns.NotebookID = notebookID
	ns.UpdatedAt = s.now()
	if err := s.repos.Settings.Save(ctx, ns); err != nil {
		return ns, unavailable(FeatureSettings, err)
	}
	s.log.Info("settings updated", "notebook_id", notebookID)
	return ns, nil
}

// ResetLearner deletes everything recorded about a learner in a notebook.
func (s *Service) ResetLearner(ctx context.Context, learnerID, notebookID string) error {
	if learnerID == "" || notebookID == "" {
		return invalidInput("learner_id", "learner and notebook are required")
	}
	if err := s.repos.Resetter.ResetLearner(ctx, learnerID, notebookID); err != nil {
		return unavailable(FeatureStates, err)
	}
	s.log.Info("learner reset", "learner_id", learnerID, "notebook_id", notebookID)
	return nil
}
