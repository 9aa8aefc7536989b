package analytics

import (
	"sort"

	"github.com/abhisek/skillpath/internal/interaction"
)

// Transfer thresholds.
const (
	MaxTransferRatio     = 1.5
	RotePracticeAccuracy = 0.8
	RoteTransferAccuracy = 0.5
	RoteMinNovelAttempts = 3
)

// TransferRatio divides transfer accuracy by practice accuracy, capped at
// MaxTransferRatio. It is nil when practice accuracy is zero.
func TransferRatio(transferAccuracy, practiceAccuracy float64) *float64 {
	if practiceAccuracy <= 0 {
		return nil
	}
	r := min(transferAccuracy/practiceAccuracy, MaxTransferRatio)
	return &r
}

// TransferMetrics compares accuracy on practiced and novel variants.
type TransferMetrics struct {
	SkillID          string   `json:"skill_id,omitempty"`
	PracticeAttempts int      `json:"practice_attempts"`
	NovelAttempts    int      `json:"novel_attempts"`
	PracticeAccuracy *float64 `json:"practice_accuracy"`
	TransferAccuracy *float64 `json:"transfer_accuracy"`
	TransferRatio    *float64 `json:"transfer_ratio"`
	RoteKnowledge    bool     `json:"rote_knowledge"`
}

// TransferSummary holds overall and per-skill transfer metrics.
type TransferSummary struct {
	Overall TransferMetrics   `json:"overall"`
	Skills  []TransferMetrics `json:"skills"`
	// RoteSkills lists skills that look memorized rather than understood.
	RoteSkills []string `json:"rote_skills"`
}

type transferTally struct {
	practice, practiceRight, novel, novelRight int
}

func (t transferTally) metrics(skillID string) TransferMetrics {
	m := TransferMetrics{SkillID: skillID, PracticeAttempts: t.practice, NovelAttempts: t.novel}
	m.PracticeAccuracy = accuracy(t.practiceRight, t.practice)
	m.TransferAccuracy = accuracy(t.novelRight, t.novel)
	if m.PracticeAccuracy != nil && m.TransferAccuracy != nil {
		m.TransferRatio = TransferRatio(*m.TransferAccuracy, *m.PracticeAccuracy)
		m.RoteKnowledge = *m.PracticeAccuracy >= RotePracticeAccuracy &&
			*m.TransferAccuracy < RoteTransferAccuracy &&
			t.novel >= RoteMinNovelAttempts
	}
	return m
}

// Transfer tallies attempts by whether the variant was novel.
func Transfer(attempts []interaction.Attempt) TransferSummary {
	var overall transferTally
	bySkill := map[string]*transferTally{}
	for _, a := range attempts {
		t, ok := bySkill[a.SkillID]
		if !ok {
			t = &transferTally{}
			bySkill[a.SkillID] = t
		}
		for _, tt := range []*transferTally{t, &overall} {
			if a.IsNovel {
				tt.novel++
				if a.IsCorrect {
					tt.novelRight++
				}
			} else {
				tt.practice++
				if a.IsCorrect {
					tt.practiceRight++
				}
			}
		}
	}

	s := TransferSummary{Overall: overall.metrics(""), Skills: []TransferMetrics{}, RoteSkills: []string{}}
	ids := make([]string, 0, len(bySkill))
	for id := range bySkill {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		m := bySkill[id].metrics(id)
		s.Skills = append(s.Skills, m)
		if m.RoteKnowledge {
			s.RoteSkills = append(s.RoteSkills, id)
		}
	}
	return s
}

func accuracy(right, total int) *float64 {
	if total == 0 {
		return nil
	}
	a := float64(right) / float64(total)
	return &a
}
