package skillgraph

import (
	"math"
	"strings"
	"testing"
)

func TestNew_DetectsCycle(t *testing.T) {
	skills := []SkillNode{{ID: "a"}, {ID: "b"}}
	edges := []Prerequisite{
		{FromSkillID: "a", ToSkillID: "b", Strength: StrengthRequired},
		{FromSkillID: "b", ToSkillID: "a", Strength: StrengthRequired},
	}
	_, err := New(skills, edges)
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should mention cycle, got: %v", err)
	}
}

func TestNew_DetectsDanglingPrereq(t *testing.T) {
	skills := []SkillNode{{ID: "a"}, {ID: "b"}}
	edges := []Prerequisite{{FromSkillID: "nonexistent", ToSkillID: "b", Strength: StrengthRequired}}
	_, err := New(skills, edges)
	if err == nil {
		t.Fatal("expected error for dangling prerequisite, got nil")
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error should mention the missing ID, got: %v", err)
	}
}

func TestNew_DetectsDuplicateID(t *testing.T) {
	skills := []SkillNode{{ID: "a"}, {ID: "a"}}
	_, err := New(skills, nil)
	if err == nil {
		t.Fatal("expected error for duplicate ID, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error should mention duplicate, got: %v", err)
	}
}

func TestNew_DetectsUnknownStrength(t *testing.T) {
	skills := []SkillNode{{ID: "a"}, {ID: "b"}}
	edges := []Prerequisite{{FromSkillID: "a", ToSkillID: "b", Strength: "mandatory"}}
	_, err := New(skills, edges)
	if err == nil {
		t.Fatal("expected error for unknown strength, got nil")
	}
	if !strings.Contains(err.Error(), "mandatory") {
		t.Errorf("error should mention the bad strength, got: %v", err)
	}
}

func TestNew_DetectsOutOfRangeValues(t *testing.T) {
	skills := []SkillNode{
		{ID: "a", Difficulty: 1.5},
		{ID: "b", BloomLevel: 7},
		{ID: "c", BKT: &SkillParams{PL0: 0.3, PT: -0.1, PS: 0.1, PG: 0.2}},
	}
	_, err := New(skills, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"difficulty", "bloom level", "bkt.pt"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestNew_RejectsNaN(t *testing.T) {
	skills := []SkillNode{
		{ID: "a", Difficulty: math.NaN()},
		{ID: "b", BKT: &SkillParams{PL0: math.NaN(), PT: 0.1, PS: 0.1, PG: 0.2}},
	}
	_, err := New(skills, nil)
	if err == nil {
		t.Fatal("expected error for NaN values, got nil")
	}
	for _, want := range []string{"difficulty", "bkt.pl0"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestNew_CollectsAllProblems(t *testing.T) {
	skills := []SkillNode{{ID: "a"}, {ID: "a"}, {ID: "b", Difficulty: -1}}
	edges := []Prerequisite{{FromSkillID: "b", ToSkillID: "b", Strength: StrengthHelpful}}
	_, err := New(skills, edges)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	lines := strings.Count(err.Error(), "\n  ")
	if lines < 3 {
		t.Errorf("expected at least 3 problems reported, got %d: %v", lines, err)
	}
}

func TestNew_EmptyGraphIsValid(t *testing.T) {
	g, err := New(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}
