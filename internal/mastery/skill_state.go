package mastery

import (
	"time"

	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/spacedrep"
)

// LearnerSkillState is a learner's mastery state for one skill.
// PMastery is only ever written by NewState and Update.
type LearnerSkillState struct {
	LearnerID            string             `json:"learner_id"`
	NotebookID           string             `json:"notebook_id"`
	SkillID              string             `json:"skill_id"`
	PMastery             float64            `json:"p_mastery"`
	Params               Params             `json:"bkt_params"`
	Status               Status             `json:"mastery_status"`
	MasteryThreshold     float64            `json:"mastery_threshold"`
	TotalAttempts        int                `json:"total_attempts"`
	CorrectAttempts      int                `json:"correct_attempts"`
	ConsecutiveSuccesses int                `json:"consecutive_successes"`
	Review               spacedrep.Schedule `json:"spaced_repetition"`
	ScaffoldLevel        scaffold.Level     `json:"current_scaffold_level"`
	MasteredAt           *time.Time         `json:"mastered_at,omitempty"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// NewState returns the untouched state of a skill: probability at the prior,
// no attempts, no review scheduled.
func NewState(learnerID, notebookID, skillID string, p Params, threshold float64, now time.Time) LearnerSkillState {
	return LearnerSkillState{
		LearnerID:        learnerID,
		NotebookID:       notebookID,
		SkillID:          skillID,
		PMastery:         clamp01(p.PL0),
		Params:           p,
		Status:           StatusNotStarted,
		MasteryThreshold: threshold,
		Review:           spacedrep.NewSchedule(),
		ScaffoldLevel:    scaffold.LevelWorkedExamples,
		UpdatedAt:        now,
	}
}

// Accuracy returns the fraction of correct attempts, or nil with no attempts.
func (s LearnerSkillState) Accuracy() *float64 {
	if s.TotalAttempts == 0 {
		return nil
	}
	a := float64(s.CorrectAttempts) / float64(s.TotalAttempts)
	return &a
}

// IsMastered reports whether the state is currently mastered.
func (s LearnerSkillState) IsMastered() bool {
	return s.Status == StatusMastered
}
