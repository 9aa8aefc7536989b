// Package session models bounded windows of learner activity.
package session

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
)

// DefaultIdleGap is the inactivity gap that ends a derived session.
const DefaultIdleGap = 30 * time.Minute

// ErrClosed is returned when closing a session that is already closed.
var ErrClosed = errors.New("session already closed")

// Session is a learner session. It is immutable once closed.
type Session struct {
	ID              string     `json:"id"`
	LearnerID       string     `json:"learner_id"`
	NotebookID      string     `json:"notebook_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMs      *int64     `json:"duration_ms,omitempty"`
	SkillsPracticed []string   `json:"skills_practiced"`
}

// Open reports whether the session has not been closed.
func (s *Session) Open() bool {
	return s.EndedAt == nil
}

// Close ends the session at the given time and records its duration.
func (s *Session) Close(at time.Time) error {
	if !s.Open() {
		return fmt.Errorf("close session %s: %w", s.ID, ErrClosed)
	}
	if at.Before(s.StartedAt) {
		return fmt.Errorf("close session %s: end %s precedes start %s", s.ID, at.Format(time.RFC3339), s.StartedAt.Format(time.RFC3339))
	}
	end := at
	d := at.Sub(s.StartedAt).Milliseconds()
	s.EndedAt = &end
	s.DurationMs = &d
	return nil
}

// AddSkill records a practiced skill on an open session.
func (s *Session) AddSkill(skillID string) error {
	if !s.Open() {
		return fmt.Errorf("add skill to session %s: %w", s.ID, ErrClosed)
	}
	if skillID != "" && !slices.Contains(s.SkillsPracticed, skillID) {
		s.SkillsPracticed = append(s.SkillsPracticed, skillID)
	}
	return nil
}

// Duration returns the session duration, or nil while it is open.
func (s Session) Duration() *time.Duration {
	if s.DurationMs == nil {
		return nil
	}
	d := time.Duration(*s.DurationMs) * time.Millisecond
	return &d
}

// Derive reconstructs closed sessions from an interaction stream. A new
// session starts at the first interaction and after any gap longer than
// idleGap; explicit session_started and session_ended events also bound
// sessions. Each derived session ends at its last interaction. IDs are
// "derived-<n>" in chronological order.
func Derive(is []interaction.Interaction, idleGap time.Duration) []Session {
	if idleGap <= 0 {
		idleGap = DefaultIdleGap
	}
	sorted := slices.Clone(is)
	interaction.SortByTime(sorted)

	var out []Session
	var cur *Session
	var last time.Time
	closeCur := func() {
		if cur != nil {
			_ = cur.Close(last)
			out = append(out, *cur)
			cur = nil
		}
	}
	for _, i := range sorted {
		if cur != nil && (i.CreatedAt.Sub(last) > idleGap || i.EventType == interaction.EventSessionStarted) {
			closeCur()
		}
		if cur == nil {
			cur = &Session{
				ID:         fmt.Sprintf("derived-%d", len(out)+1),
				LearnerID:  i.LearnerID,
				NotebookID: i.NotebookID,
				StartedAt:  i.CreatedAt,
			}
		}
		last = i.CreatedAt
		if i.EventType == interaction.EventPracticeAttempt {
			_ = cur.AddSkill(i.SkillID)
		}
		if i.EventType == interaction.EventSessionEnded {
			closeCur()
		}
	}
	closeCur()
	return out
}

// SortByStart orders sessions by start time in place.
func SortByStart(ss []Session) {
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].StartedAt.Before(ss[j].StartedAt) })
}

// Closed returns the closed sessions, preserving order.
func Closed(ss []Session) []Session {
	var out []Session
	for _, s := range ss {
		if !s.Open() {
			out = append(out, s)
		}
	}
	return out
}
