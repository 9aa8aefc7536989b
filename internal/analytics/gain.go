// Package analytics computes longitudinal learning metrics from mastery
// history and interaction logs. Every function is pure; results are view
// data and are never stored as authoritative state.
package analytics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// CeilingPre is the pre-score at or above which normalized gain is undefined.
const CeilingPre = 0.99

// MasteryPoint is one entry of a skill's mastery history.
type MasteryPoint struct {
	LearnerID  string    `json:"learner_id"`
	SkillID    string    `json:"skill_id"`
	PMastery   float64   `json:"p_mastery"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NormalizedGain returns Hake's normalized gain (post-pre)/(1-pre), clamped
// to [-1, 1]. It returns 0 when pre is at the ceiling; callers that need to
// tell that case apart check pre >= CeilingPre.
func NormalizedGain(pre, post float64) float64 {
	if pre >= CeilingPre {
		return 0
	}
	g := (post - pre) / (1 - pre)
	return min(max(g, -1), 1)
}

// SkillGain is the gain on one skill over a period.
type SkillGain struct {
	SkillID string  `json:"skill_id"`
	Pre     float64 `json:"pre"`
	Post    float64 `json:"post"`
	Gain    float64 `json:"gain"`
	// AtCeiling marks skills whose pre-score left no room to gain. They
	// are listed but excluded from the average.
	AtCeiling bool `json:"at_ceiling"`
}

// LearningGain summarizes gains over a period.
type LearningGain struct {
	From           time.Time   `json:"from"`
	To             time.Time   `json:"to"`
	Skills         []SkillGain `json:"skills"`
	AverageGain    *float64    `json:"average_gain"`
	SkillsMeasured int         `json:"skills_measured"`
}

// ComputeLearningGain takes the first and last history point of each skill
// inside [from, to] and averages their normalized gains. Skills with fewer
// than two points in the period are not measured.
func ComputeLearningGain(history []MasteryPoint, from, to time.Time) LearningGain {
	lg := LearningGain{From: from, To: to, Skills: []SkillGain{}}
	bySkill := map[string][]MasteryPoint{}
	for _, p := range history {
		if p.RecordedAt.Before(from) || p.RecordedAt.After(to) {
			continue
		}
		bySkill[p.SkillID] = append(bySkill[p.SkillID], p)
	}

	var gains []float64
	for id, pts := range bySkill {
		if len(pts) < 2 {
			continue
		}
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].RecordedAt.Before(pts[j].RecordedAt) })
		pre, post := pts[0].PMastery, pts[len(pts)-1].PMastery
		sg := SkillGain{SkillID: id, Pre: pre, Post: post, Gain: NormalizedGain(pre, post), AtCeiling: pre >= CeilingPre}
		lg.Skills = append(lg.Skills, sg)
		if !sg.AtCeiling {
			gains = append(gains, sg.Gain)
		}
	}
	sort.Slice(lg.Skills, func(i, j int) bool { return lg.Skills[i].SkillID < lg.Skills[j].SkillID })

	lg.SkillsMeasured = len(gains)
	if len(gains) > 0 {
		avg := stat.Mean(gains, nil)
		lg.AverageGain = &avg
	}
	return lg
}
