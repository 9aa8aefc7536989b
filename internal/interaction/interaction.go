// Package interaction defines the learner interaction log entries that the
// learner model reads, with typed payloads per event type.
package interaction

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// EventType identifies the kind of interaction.
type EventType string

const (
	EventPracticeAttempt EventType = "practice_attempt"
	EventHintRequested   EventType = "hint_requested"
	EventConfidenceRated EventType = "confidence_rated"
	EventPracticeSkipped EventType = "practice_skipped"
	EventSessionStarted  EventType = "session_started"
	EventSessionEnded    EventType = "session_ended"
)

// Known reports whether t is an event type the learner model understands.
// Unknown types are stored but otherwise ignored.
func (t EventType) Known() bool {
	switch t {
	case EventPracticeAttempt, EventHintRequested, EventConfidenceRated,
		EventPracticeSkipped, EventSessionStarted, EventSessionEnded:
		return true
	}
	return false
}

// Interaction is one append-only log entry.
type Interaction struct {
	ID         string          `json:"id"`
	Sequence   int64           `json:"sequence,omitempty"`
	LearnerID  string          `json:"learner_id"`
	NotebookID string          `json:"notebook_id"`
	SessionID  string          `json:"session_id,omitempty"`
	EventType  EventType       `json:"event_type"`
	SkillID    string          `json:"skill_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PracticeAttempt is the payload of a practice_attempt event.
type PracticeAttempt struct {
	IsCorrect      bool     `json:"isCorrect"`
	ResponseTimeMs *int64   `json:"responseTimeMs,omitempty"`
	Difficulty     *float64 `json:"difficulty,omitempty"`
	UserAnswer     string   `json:"userAnswer,omitempty"`
	HintsUsed      int      `json:"hintsUsed,omitempty"`
	IsNovel        bool     `json:"isNovel,omitempty"`
}

// ConfidenceRated is the payload of a confidence_rated event.
type ConfidenceRated struct {
	RatingType    string `json:"ratingType"`
	Rating        int    `json:"rating"`
	Scale         int    `json:"scale"`
	ActualOutcome *bool  `json:"actualOutcome,omitempty"`
}

// Normalized maps the rating onto [0, 1]. A rating on a 1..Scale scale maps
// 1 to 0 and Scale to 1. Returns nil when the scale is unusable.
func (c ConfidenceRated) Normalized() *float64 {
	if c.Scale < 2 {
		return nil
	}
	v := float64(c.Rating-1) / float64(c.Scale-1)
	v = min(max(v, 0), 1)
	return &v
}

// HintRequested is the payload of a hint_requested event.
type HintRequested struct {
	TimeBeforeHintMs *int64 `json:"timeBeforeHintMs,omitempty"`
}

// PracticeSkipped is the payload of a practice_skipped event.
type PracticeSkipped struct {
	Reason string `json:"reason,omitempty"`
}

func decode[T any](i Interaction, want EventType) (T, error) {
	var v T
	if i.EventType != want {
		return v, fmt.Errorf("interaction %s: event type %q is not %q", i.ID, i.EventType, want)
	}
	if len(i.Payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(i.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s payload of interaction %s: %w", want, i.ID, err)
	}
	return v, nil
}

// PracticeAttempt decodes the payload of a practice_attempt event.
func (i Interaction) PracticeAttempt() (PracticeAttempt, error) {
	return decode[PracticeAttempt](i, EventPracticeAttempt)
}

// ConfidenceRated decodes the payload of a confidence_rated event.
func (i Interaction) ConfidenceRated() (ConfidenceRated, error) {
	return decode[ConfidenceRated](i, EventConfidenceRated)
}

// HintRequested decodes the payload of a hint_requested event.
func (i Interaction) HintRequested() (HintRequested, error) {
	return decode[HintRequested](i, EventHintRequested)
}

// PracticeSkipped decodes the payload of a practice_skipped event.
func (i Interaction) PracticeSkipped() (PracticeSkipped, error) {
	return decode[PracticeSkipped](i, EventPracticeSkipped)
}

// New builds an interaction with a marshaled payload.
func New(learnerID, notebookID string, t EventType, skillID string, payload any, at time.Time) (Interaction, error) {
	i := Interaction{
		LearnerID:  learnerID,
		NotebookID: notebookID,
		EventType:  t,
		SkillID:    skillID,
		CreatedAt:  at,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Interaction{}, fmt.Errorf("marshal %s payload: %w", t, err)
		}
		i.Payload = raw
	}
	return i, nil
}

// SortByTime orders interactions by CreatedAt, then Sequence, in place.
func SortByTime(is []Interaction) {
	sort.SliceStable(is, func(a, b int) bool {
		if !is[a].CreatedAt.Equal(is[b].CreatedAt) {
			return is[a].CreatedAt.Before(is[b].CreatedAt)
		}
		return is[a].Sequence < is[b].Sequence
	})
}

// OfType returns the interactions with the given event type, preserving order.
func OfType(is []Interaction, t EventType) []Interaction {
	var out []Interaction
	for _, i := range is {
		if i.EventType == t {
			out = append(out, i)
		}
	}
	return out
}
