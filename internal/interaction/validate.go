package interaction

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// payloadSchemas are the JSON schemas for each known event payload.
var payloadSchemas = map[EventType]map[string]any{
	EventPracticeAttempt: {
		"type":     "object",
		"required": []any{"isCorrect"},
		"properties": map[string]any{
			"isCorrect":      map[string]any{"type": "boolean"},
			"responseTimeMs": map[string]any{"type": "integer", "minimum": 0},
			"difficulty":     map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"userAnswer":     map[string]any{"type": "string"},
			"hintsUsed":      map[string]any{"type": "integer", "minimum": 0},
			"isNovel":        map[string]any{"type": "boolean"},
		},
	},
	EventConfidenceRated: {
		"type":     "object",
		"required": []any{"rating", "scale"},
		"properties": map[string]any{
			"ratingType":    map[string]any{"type": "string"},
			"rating":        map[string]any{"type": "integer", "minimum": 1},
			"scale":         map[string]any{"type": "integer", "minimum": 2},
			"actualOutcome": map[string]any{"type": "boolean"},
		},
	},
	EventHintRequested: {
		"type": "object",
		"properties": map[string]any{
			"timeBeforeHintMs": map[string]any{"type": "integer", "minimum": 0},
		},
	},
	EventPracticeSkipped: {
		"type": "object",
		"properties": map[string]any{
			"reason": map[string]any{"type": "string"},
		},
	},
}

// schemaCache caches compiled payload schemas by event type.
var schemaCache sync.Map // map[EventType]*jsonschema.Schema

// InvalidError reports an interaction that failed validation.
type InvalidError struct {
	ID  string
	Err error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid interaction %q: %v", e.ID, e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// Validate checks the envelope fields and, for known event types, the
// payload against its JSON schema.
func Validate(i Interaction) error {
	switch {
	case i.LearnerID == "":
		return &InvalidError{ID: i.ID, Err: fmt.Errorf("learner_id is required")}
	case i.EventType == "":
		return &InvalidError{ID: i.ID, Err: fmt.Errorf("event_type is required")}
	case i.CreatedAt.IsZero():
		return &InvalidError{ID: i.ID, Err: fmt.Errorf("created_at is required")}
	case i.EventType == EventPracticeAttempt && i.SkillID == "":
		return &InvalidError{ID: i.ID, Err: fmt.Errorf("practice_attempt requires skill_id")}
	}

	def, ok := payloadSchemas[i.EventType]
	if !ok {
		return nil
	}
	raw := i.Payload
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidError{ID: i.ID, Err: fmt.Errorf("invalid JSON payload: %w", err)}
	}
	compiled, err := compiledSchema(i.EventType, def)
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", i.EventType, err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return &InvalidError{ID: i.ID, Err: fmt.Errorf("%s payload: %w", i.EventType, err)}
	}
	return nil
}

func compiledSchema(t EventType, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// Round-trip through JSON so the compiler sees plain decoded values.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", t)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	schemaCache.Store(t, compiled)
	return compiled, nil
}
