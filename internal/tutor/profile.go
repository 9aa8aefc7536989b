package tutor

import (
	"context"
	"fmt"

	"github.com/abhisek/skillpath/internal/profile"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/store"
)

// ProfileResult is a stored profile with its warnings and insights.
type ProfileResult struct {
	profile.Result
	Insights []profile.Insight `json:"insights"`
}

// ComputeProfile reads the learner's interaction window, computes a new
// profile version and stores it. Older versions beyond the retention limit
// are pruned.
func (s *Service) ComputeProfile(ctx context.Context, learnerID, notebookID string) (ProfileResult, error) {
	w, warnings, err := s.window(ctx, learnerID, notebookID)
	if err != nil {
		return ProfileResult{}, err
	}
	res, err := profile.Compute(ctx, w)
	if err != nil {
		return ProfileResult{}, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	for _, msg := range res.Warnings {
		s.log.Debug("profile dimension degraded", "learner_id", learnerID, "notebook_id", notebookID, "warning", msg)
	}

	p := res.Profile
	if err := s.repos.Profiles.Save(ctx, &p); err != nil {
		return ProfileResult{}, unavailable(FeatureProfiles, err)
	}
	res.Profile = p
	if err := s.repos.Profiles.Prune(ctx, learnerID, notebookID, s.opts.KeepProfiles); err != nil {
		s.log.Warn("profile prune failed", "learner_id", learnerID, "error", err)
	}
	s.log.Info("profile computed", "learner_id", learnerID, "notebook_id", notebookID,
		"version", p.Version, "interactions", p.InteractionsAnalyzed, "data_quality", res.DataQuality.Level)

	return ProfileResult{Result: res, Insights: profile.Insights(p)}, nil
}

// LatestProfile returns the newest stored profile, or nil if none exists.
func (s *Service) LatestProfile(ctx context.Context, learnerID, notebookID string) (*profile.InverseProfile, error) {
	p, err := s.repos.Profiles.Latest(ctx, learnerID, notebookID)
	if err != nil {
		return nil, unavailable(FeatureProfiles, err)
	}
	return p, nil
}

// window assembles the profile input. A missing graph degrades the
// knowledge dimension instead of failing the computation; sessions are
// derived from the interaction stream when none were recorded.
func (s *Service) window(ctx context.Context, learnerID, notebookID string) (profile.Window, []string, error) {
	now := s.now()
	w := profile.Window{LearnerID: learnerID, NotebookID: notebookID, Now: now, Location: s.opts.Location}
	var warnings []string

	opts := store.QueryOpts{Limit: s.opts.MaxInteractions}
	if s.opts.ProfileWindow > 0 {
		opts.From = now.Add(-s.opts.ProfileWindow)
	}

	is, err := s.repos.Interactions.List(ctx, learnerID, notebookID, opts)
	if err != nil {
		return w, nil, unavailable(FeatureInteractions, err)
	}
	w.Interactions = is

	states, err := s.stateList(ctx, learnerID, notebookID)
	if err != nil {
		return w, nil, err
	}
	w.States = states

	sessions, err := s.repos.Sessions.List(ctx, learnerID, notebookID, store.QueryOpts{From: opts.From})
	if err != nil {
		return w, nil, unavailable(FeatureSessions, err)
	}
	if len(sessions) == 0 && len(is) > 0 {
		sessions = session.Derive(is, session.DefaultIdleGap)
		warnings = append(warnings, fmt.Sprintf("sessions derived from interactions: %d", len(sessions)))
	}
	w.Sessions = sessions

	g, err := s.Graph(ctx, notebookID)
	if err != nil {
		warnings = append(warnings, "skill graph unavailable; knowledge dimension has no ZPD list")
	} else {
		w.Graph = g
		if ns, err := s.Settings(ctx, notebookID); err != nil {
			warnings = append(warnings, "notebook settings unavailable; ZPD uses the default prior")
		} else {
			w.Prior = priorFor(ns.Mastery)
		}
	}
	return w, warnings, nil
}
