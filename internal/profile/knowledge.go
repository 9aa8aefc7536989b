package profile

import (
	"fmt"
	"sort"

	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/zpd"
)

// Knowledge-state thresholds.
const (
	GapMasteryBelow        = 0.4
	GapMinAttempts         = 3
	MisconceptionErrorRate = 0.6
	MisconceptionMinTries  = 3
)

// StatusCounts counts skills by mastery status.
type StatusCounts struct {
	NotStarted int `json:"not_started"`
	Learning   int `json:"learning"`
	Mastered   int `json:"mastered"`
}

// SkillGap is a low-mastery skill the learner has already worked on.
type SkillGap struct {
	SkillID  string  `json:"skill_id"`
	PMastery float64 `json:"p_mastery"`
	Attempts int     `json:"attempts"`
}

// Misconception is a skill answered wrongly most of the time.
type Misconception struct {
	SkillID           string  `json:"skill_id"`
	ErrorRate         float64 `json:"error_rate"`
	Attempts          int     `json:"attempts"`
	CommonWrongAnswer string  `json:"common_wrong_answer,omitempty"`
}

// KnowledgeState summarizes what the learner knows. Fields other than
// StatusCounts and SkillsTracked are nil until enough interactions exist.
type KnowledgeState struct {
	SkillsTracked  int             `json:"skills_tracked"`
	StatusCounts   StatusCounts    `json:"status_counts"`
	AverageMastery *float64        `json:"average_mastery"`
	ZPDSkills      []string        `json:"zpd_skills"`
	KnowledgeGaps  []SkillGap      `json:"knowledge_gaps"`
	Misconceptions []Misconception `json:"misconceptions"`
}

// Knowledge computes the knowledge-state dimension.
func Knowledge(w Window) (KnowledgeState, []string) {
	var k KnowledgeState
	var warnings []string

	k.SkillsTracked = len(w.States)
	for _, s := range w.States {
		switch mastery.StatusFor(s.TotalAttempts, s.PMastery, s.MasteryThreshold) {
		case mastery.StatusNotStarted:
			k.StatusCounts.NotStarted++
		case mastery.StatusLearning:
			k.StatusCounts.Learning++
		case mastery.StatusMastered:
			k.StatusCounts.Mastered++
		}
	}

	need := Policies[DimensionKnowledge].MinSamples
	if n := len(w.Interactions); n < need {
		warnings = append(warnings, fmt.Sprintf("knowledge: %d interactions, need %d; average mastery, gaps and misconceptions unknown", n, need))
		return k, warnings
	}

	if len(w.States) > 0 {
		var sum float64
		for _, s := range w.States {
			sum += s.PMastery
		}
		k.AverageMastery = ptr(sum / float64(len(w.States)))
	} else {
		warnings = append(warnings, "knowledge: no skill states; average mastery unknown")
	}

	k.KnowledgeGaps = []SkillGap{}
	for _, s := range w.States {
		if s.TotalAttempts >= GapMinAttempts && s.PMastery < GapMasteryBelow {
			k.KnowledgeGaps = append(k.KnowledgeGaps, SkillGap{SkillID: s.SkillID, PMastery: s.PMastery, Attempts: s.TotalAttempts})
		}
	}
	sort.Slice(k.KnowledgeGaps, func(i, j int) bool {
		if k.KnowledgeGaps[i].PMastery != k.KnowledgeGaps[j].PMastery {
			return k.KnowledgeGaps[i].PMastery < k.KnowledgeGaps[j].PMastery
		}
		return k.KnowledgeGaps[i].SkillID < k.KnowledgeGaps[j].SkillID
	})

	k.Misconceptions = misconceptions(w.attempts())

	if w.Graph != nil {
		states := make(map[string]mastery.LearnerSkillState, len(w.States))
		for _, s := range w.States {
			states[s.SkillID] = s
		}
		k.ZPDSkills = zpd.IDs(zpd.Select(w.Graph, states, w.Prior))
	} else {
		warnings = append(warnings, "knowledge: no skill graph; ZPD skills unknown")
	}
	return k, warnings
}

func misconceptions(attempts []attempt) []Misconception {
	type tally struct {
		total, wrong int
		answers      map[string]int
	}
	bySkill := map[string]*tally{}
	for _, a := range attempts {
		t, ok := bySkill[a.SkillID]
		if !ok {
			t = &tally{answers: map[string]int{}}
			bySkill[a.SkillID] = t
		}
		t.total++
		if !a.IsCorrect {
			t.wrong++
			if a.UserAnswer != "" {
				t.answers[a.UserAnswer]++
			}
		}
	}
	out := []Misconception{}
	for id, t := range bySkill {
		if t.total < MisconceptionMinTries {
			continue
		}
		rate := float64(t.wrong) / float64(t.total)
		if rate < MisconceptionErrorRate {
			continue
		}
		m := Misconception{SkillID: id, ErrorRate: rate, Attempts: t.total}
		best := 1
		for ans, n := range t.answers {
			if n > best || (n == best && n > 1 && ans < m.CommonWrongAnswer) {
				best, m.CommonWrongAnswer = n, ans
			}
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ErrorRate != out[j].ErrorRate {
			return out[i].ErrorRate > out[j].ErrorRate
		}
		return out[i].SkillID < out[j].SkillID
	})
	return out
}
