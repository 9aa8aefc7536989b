package interaction

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestNewAndDecodePracticeAttempt(t *testing.T) {
	i, err := New("l1", "nb", EventPracticeAttempt, "fraction-add", PracticeAttempt{
		IsCorrect:      true,
		ResponseTimeMs: ptr[int64](4200),
		Difficulty:     ptr(0.4),
		UserAnswer:     "3/4",
	}, at)
	require.NoError(t, err)

	pa, err := i.PracticeAttempt()
	require.NoError(t, err)
	assert.True(t, pa.IsCorrect)
	require.NotNil(t, pa.ResponseTimeMs)
	assert.Equal(t, int64(4200), *pa.ResponseTimeMs)
	assert.Equal(t, "3/4", pa.UserAnswer)

	_, err = i.ConfidenceRated()
	assert.Error(t, err, "decoding as the wrong type fails")
}

func TestDecode_MissingOptionalFieldsStayNil(t *testing.T) {
	i := Interaction{ID: "x", EventType: EventPracticeAttempt, Payload: json.RawMessage(`{"isCorrect":false}`)}
	pa, err := i.PracticeAttempt()
	require.NoError(t, err)
	assert.Nil(t, pa.ResponseTimeMs)
	assert.Nil(t, pa.Difficulty)
}

func TestConfidenceNormalized(t *testing.T) {
	tests := []struct {
		c    ConfidenceRated
		want *float64
	}{
		{ConfidenceRated{Rating: 1, Scale: 5}, ptr(0.0)},
		{ConfidenceRated{Rating: 5, Scale: 5}, ptr(1.0)},
		{ConfidenceRated{Rating: 3, Scale: 5}, ptr(0.5)},
		{ConfidenceRated{Rating: 9, Scale: 5}, ptr(1.0)},
		{ConfidenceRated{Rating: 1, Scale: 1}, nil},
	}
	for _, tt := range tests {
		got := tt.c.Normalized()
		if tt.want == nil {
			assert.Nil(t, got)
			continue
		}
		require.NotNil(t, got)
		assert.InDelta(t, *tt.want, *got, 1e-9)
	}
}

func TestValidate(t *testing.T) {
	valid := func(et EventType, payload string) Interaction {
		return Interaction{ID: "i1", LearnerID: "l1", EventType: et, SkillID: "s", Payload: json.RawMessage(payload), CreatedAt: at}
	}
	tests := []struct {
		name    string
		i       Interaction
		wantErr bool
	}{
		{"practice ok", valid(EventPracticeAttempt, `{"isCorrect":true,"responseTimeMs":1200}`), false},
		{"practice missing isCorrect", valid(EventPracticeAttempt, `{"responseTimeMs":1200}`), true},
		{"practice negative time", valid(EventPracticeAttempt, `{"isCorrect":true,"responseTimeMs":-5}`), true},
		{"practice difficulty out of range", valid(EventPracticeAttempt, `{"isCorrect":true,"difficulty":1.5}`), true},
		{"confidence ok", valid(EventConfidenceRated, `{"ratingType":"pre","rating":4,"scale":5}`), false},
		{"confidence missing scale", valid(EventConfidenceRated, `{"rating":4}`), true},
		{"hint empty payload", valid(EventHintRequested, ``), false},
		{"unknown type passes", valid("page_viewed", `{"anything":1}`), false},
		{"bad json", valid(EventHintRequested, `{`), true},
		{"missing learner", Interaction{EventType: EventHintRequested, CreatedAt: at}, true},
		{"missing time", Interaction{LearnerID: "l1", EventType: EventHintRequested}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.i)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ie *InvalidError
				assert.True(t, errors.As(err, &ie), "want *InvalidError, got %T", err)
			}
		})
	}
}

func TestAttempts_SkipsUndecodable(t *testing.T) {
	is := []Interaction{
		{ID: "1", EventType: EventPracticeAttempt, SkillID: "a", Payload: json.RawMessage(`{"isCorrect":true}`), CreatedAt: at},
		{ID: "2", EventType: EventHintRequested, SkillID: "a", CreatedAt: at},
		{ID: "3", EventType: EventPracticeAttempt, SkillID: "a", Payload: json.RawMessage(`{"isCorrect":"yes"}`), CreatedAt: at},
	}
	attempts, skipped := Attempts(is)
	assert.Len(t, attempts, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "1", attempts[0].InteractionID)
}

func TestSortByTime(t *testing.T) {
	is := []Interaction{
		{ID: "c", CreatedAt: at.Add(time.Minute)},
		{ID: "b", CreatedAt: at, Sequence: 2},
		{ID: "a", CreatedAt: at, Sequence: 1},
	}
	SortByTime(is)
	assert.Equal(t, "a", is[0].ID)
	assert.Equal(t, "b", is[1].ID)
	assert.Equal(t, "c", is[2].ID)
}
