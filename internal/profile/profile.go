package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
	"golang.org/x/sync/errgroup"
)

// InverseProfile is one computed snapshot of a learner in a notebook.
// Profiles are never patched; a newer Version supersedes older ones.
type InverseProfile struct {
	ID                   string                  `json:"id"`
	LearnerID            string                  `json:"learner_id"`
	NotebookID           string                  `json:"notebook_id"`
	Version              int                     `json:"version"`
	Knowledge            KnowledgeState          `json:"knowledge_state"`
	Cognitive            CognitiveIndicators     `json:"cognitive_indicators"`
	Metacognitive        MetacognitiveIndicators `json:"metacognitive_indicators"`
	Motivational         MotivationalIndicators  `json:"motivational_indicators"`
	Behavioral           BehavioralPatterns      `json:"behavioral_patterns"`
	ConfidenceScores     ConfidenceScores        `json:"confidence_scores"`
	InteractionsAnalyzed int                     `json:"interactions_analyzed"`
	ComputedAt           time.Time               `json:"computed_at"`
}

// Result is the output of Compute.
type Result struct {
	Profile     InverseProfile `json:"profile"`
	Warnings    []string       `json:"warnings"`
	DataQuality DataQuality    `json:"data_quality"`
}

// Compute runs the five dimensions concurrently over the window and
// assembles the profile. ID and Version are left for the caller to assign
// when the profile is stored. The same window always yields the same
// result.
func Compute(ctx context.Context, w Window) (Result, error) {
	p := InverseProfile{
		LearnerID:            w.LearnerID,
		NotebookID:           w.NotebookID,
		InteractionsAnalyzed: len(w.Interactions),
		ComputedAt:           w.Now,
	}
	var dimWarnings [5][]string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Knowledge, dimWarnings[0] = Knowledge(w)
		return gctx.Err()
	})
	g.Go(func() error {
		p.Cognitive, dimWarnings[1] = Cognitive(w)
		return gctx.Err()
	})
	g.Go(func() error {
		p.Metacognitive, dimWarnings[2] = Metacognitive(w)
		return gctx.Err()
	})
	g.Go(func() error {
		p.Motivational, dimWarnings[3] = Motivational(w)
		return gctx.Err()
	})
	g.Go(func() error {
		p.Behavioral, dimWarnings[4] = Behavioral(w)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("compute profile: %w", err)
	}

	_, badAttempts := interaction.Attempts(w.Interactions)
	ratings, badRatings := interaction.Ratings(w.Interactions)
	_, badHints := interaction.Hints(w.Interactions)
	practice := len(w.attempts())

	var warnings []string
	if bad := badAttempts + badRatings + badHints; bad > 0 {
		warnings = append(warnings, fmt.Sprintf("%d interactions with undecodable payloads ignored", bad))
	}
	for _, ws := range dimWarnings {
		warnings = append(warnings, ws...)
	}

	p.ConfidenceScores = ConfidenceScores{
		Knowledge:     Confidence(len(w.Interactions), Policies[DimensionKnowledge]),
		Cognitive:     Confidence(practice, Policies[DimensionCognitive]),
		Metacognitive: Confidence(practice, Policies[DimensionMetacognitive]),
		Motivational:  Confidence(len(w.Sessions), Policies[DimensionMotivational]),
		Behavioral:    Confidence(len(w.Interactions), Policies[DimensionBehavioral]),
	}

	return Result{
		Profile:     p,
		Warnings:    warnings,
		DataQuality: AssessDataQuality(len(w.Interactions), practice, len(w.Sessions), len(ratings)),
	}, nil
}
