package store

import (
	"context"
	"time"

	"github.com/abhisek/skillpath/internal/analytics"
	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/profile"
	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/skillgraph"
)

// QueryOpts configures time-series queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // most recent N results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

func (o QueryOpts) inRange(t time.Time) bool {
	if !o.From.IsZero() && t.Before(o.From) {
		return false
	}
	if !o.To.IsZero() && t.After(o.To) {
		return false
	}
	return true
}

// GraphRepo stores per-notebook skill graphs.
type GraphRepo interface {
	// SaveGraph replaces the notebook's skills and prerequisites.
	SaveGraph(ctx context.Context, notebookID string, skills []skillgraph.SkillNode, edges []skillgraph.Prerequisite) error

	// LoadGraph returns the notebook's skills in import order and its edges.
	LoadGraph(ctx context.Context, notebookID string) ([]skillgraph.SkillNode, []skillgraph.Prerequisite, error)

	// Notebooks lists notebooks with a stored graph.
	Notebooks(ctx context.Context) ([]string, error)
}

// StateKey identifies one learner skill state.
type StateKey struct {
	LearnerID  string
	NotebookID string
	SkillID    string
}

// UpdateFunc computes the next state from the current one, which is nil
// when the learner has no state for the skill yet. A non-nil transition is
// appended to the mastery event log.
type UpdateFunc func(cur *mastery.LearnerSkillState) (mastery.LearnerSkillState, *mastery.StateTransition, error)

// MasteryEvent is a stored mastery status transition.
type MasteryEvent struct {
	Sequence   int64
	NotebookID string
	mastery.StateTransition
	CreatedAt time.Time
}

// SkillStateRepo manages learner skill states and their history.
type SkillStateRepo interface {
	// Get returns the state, or nil if none exists.
	Get(ctx context.Context, key StateKey) (*mastery.LearnerSkillState, error)

	// List returns all states of a learner in a notebook ordered by skill ID.
	List(ctx context.Context, learnerID, notebookID string) ([]mastery.LearnerSkillState, error)

	// Learners lists learners with at least one state in the notebook.
	Learners(ctx context.Context, notebookID string) ([]string, error)

	// Update is an atomic read-modify-write of one state. The new state,
	// a mastery history point and any transition are written in one
	// transaction.
	Update(ctx context.Context, key StateKey, fn UpdateFunc) (mastery.LearnerSkillState, error)

	// Record appends the interaction and applies fn in the same
	// transaction as Update. Nothing is stored if either step fails.
	Record(ctx context.Context, key StateKey, it *interaction.Interaction, fn UpdateFunc) (mastery.LearnerSkillState, error)

	// History returns mastery history points in recording order.
	History(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]analytics.MasteryPoint, error)

	// Transitions returns mastery events in sequence order.
	Transitions(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]MasteryEvent, error)
}

// InteractionRepo is the append-only interaction log.
type InteractionRepo interface {
	// Append assigns an ID when empty and the next sequence, then stores i.
	Append(ctx context.Context, i *interaction.Interaction) error

	// List returns interactions in sequence order.
	List(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]interaction.Interaction, error)

	// LastActivity returns the time of the newest interaction, or nil.
	LastActivity(ctx context.Context, learnerID, notebookID string) (*time.Time, error)
}

// SessionRepo stores learner sessions.
type SessionRepo interface {
	// Save inserts or replaces a session.
	Save(ctx context.Context, s session.Session) error

	// Get returns a session, or nil if none exists.
	Get(ctx context.Context, id string) (*session.Session, error)

	// List returns sessions ordered by start time.
	List(ctx context.Context, learnerID, notebookID string, opts QueryOpts) ([]session.Session, error)
}

// ProfileRepo stores versioned inverse profiles. Profiles are create-only.
type ProfileRepo interface {
	// Save assigns an ID when empty and the next version, then stores p.
	Save(ctx context.Context, p *profile.InverseProfile) error

	// Latest returns the highest version, or nil if none exist.
	Latest(ctx context.Context, learnerID, notebookID string) (*profile.InverseProfile, error)

	// Prune deletes all but the keep most recent versions.
	Prune(ctx context.Context, learnerID, notebookID string, keep int) error
}

// NotebookSettings are the per-notebook tuning knobs.
type NotebookSettings struct {
	NotebookID     string              `json:"notebook_id"`
	Mastery        mastery.Config      `json:"mastery"`
	Scaffold       scaffold.Thresholds `json:"scaffold_thresholds"`
	FastResponseMs int64               `json:"fast_response_ms"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// SettingsRepo stores notebook settings.
type SettingsRepo interface {
	// Get returns the settings, or nil if the notebook has none.
	Get(ctx context.Context, notebookID string) (*NotebookSettings, error)

	Save(ctx context.Context, s NotebookSettings) error
}

// LearnerResetter removes everything recorded about a learner in a notebook.
type LearnerResetter interface {
	ResetLearner(ctx context.Context, learnerID, notebookID string) error
}
