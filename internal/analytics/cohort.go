package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/skillpath/internal/mastery"
	"gonum.org/v1/gonum/stat"
)

// Cohort thresholds.
const (
	StruggleBelow        = 0.5
	StruggleSpotMinCount = 2
	AtRiskMasteryBelow   = 0.4
	AtRiskStruggleAreas  = 3
	InactiveAfter        = 7 * 24 * time.Hour
	TrendWindowWeeks     = 2
	AcceleratingAbove    = 1.1
	SlowingBelow         = 0.9
)

// Trend is the direction of cohort learning velocity.
type Trend string

const (
	TrendAccelerating Trend = "accelerating"
	TrendSteady       Trend = "steady"
	TrendSlowing      Trend = "slowing"
	TrendUnknown      Trend = "unknown"
)

// StudentProgress is one student's input to the cohort view.
type StudentProgress struct {
	LearnerID    string
	States       []mastery.LearnerSkillState
	History      []MasteryPoint
	LastActiveAt *time.Time
}

// MasteryBand is one bar of the mastery distribution.
type MasteryBand struct {
	Label string  `json:"label"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// masteryBands are the distribution bars; a value falls in the first band
// whose upper bound it is strictly below, and 1.0 in the last.
var masteryBands = []MasteryBand{
	{Label: "0-20%", Upper: 0.2},
	{Label: "20-40%", Upper: 0.4},
	{Label: "40-60%", Upper: 0.6},
	{Label: "60-80%", Upper: 0.8},
	{Label: "80-100%", Upper: 1.0},
}

func bandIndex(p float64) int {
	for i, b := range masteryBands {
		if p < b.Upper {
			return i
		}
	}
	return len(masteryBands) - 1
}

// StruggleSpot is a skill several students are stuck on.
type StruggleSpot struct {
	SkillID  string   `json:"skill_id"`
	Students []string `json:"students"`
}

// AtRiskStudent is a student flagged for educator attention.
type AtRiskStudent struct {
	LearnerID      string   `json:"learner_id"`
	AverageMastery *float64 `json:"average_mastery"`
	StruggleAreas  []string `json:"struggle_areas"`
	Reasons        []string `json:"reasons"`
}

// CohortSummary is the class-wide view.
type CohortSummary struct {
	StudentCount   int             `json:"student_count"`
	AverageMastery *float64        `json:"average_mastery"`
	Distribution   []MasteryBand   `json:"mastery_distribution"`
	StruggleSpots  []StruggleSpot  `json:"struggle_spots"`
	AtRisk         []AtRiskStudent `json:"at_risk"`
	WeeklyDeltas   []float64       `json:"weekly_deltas"`
	VelocityTrend  Trend           `json:"velocity_trend"`
}

// Cohort aggregates student progress at now.
//
// A student struggles on a skill they have attempted with mastery below
// StruggleBelow. The distribution counts each student once by their
// average mastery over practiced skills.
func Cohort(students []StudentProgress, now time.Time) CohortSummary {
	sum := CohortSummary{
		StudentCount:  len(students),
		Distribution:  append([]MasteryBand(nil), masteryBands...),
		StruggleSpots: []StruggleSpot{},
		AtRisk:        []AtRiskStudent{},
	}

	struggling := map[string][]string{}
	var averages []float64
	for _, st := range students {
		var ps []float64
		var areas []string
		for _, s := range st.States {
			if s.TotalAttempts == 0 {
				continue
			}
			ps = append(ps, s.PMastery)
			if s.PMastery < StruggleBelow {
				areas = append(areas, s.SkillID)
				struggling[s.SkillID] = append(struggling[s.SkillID], st.LearnerID)
			}
		}
		sort.Strings(areas)

		var avg *float64
		if len(ps) > 0 {
			v := stat.Mean(ps, nil)
			avg = &v
			averages = append(averages, v)
			sum.Distribution[bandIndex(v)].Count++
		}

		var reasons []string
		if avg != nil && *avg < AtRiskMasteryBelow {
			reasons = append(reasons, fmt.Sprintf("average mastery %.0f%%", *avg*100))
		}
		if len(areas) >= AtRiskStruggleAreas {
			reasons = append(reasons, fmt.Sprintf("struggling on %d skills", len(areas)))
		}
		if st.LastActiveAt == nil {
			reasons = append(reasons, "no recorded activity")
		} else if idle := now.Sub(*st.LastActiveAt); idle >= InactiveAfter {
			reasons = append(reasons, fmt.Sprintf("inactive for %d days", int(idle.Hours()/24)))
		}
		if len(reasons) > 0 {
			sum.AtRisk = append(sum.AtRisk, AtRiskStudent{
				LearnerID:      st.LearnerID,
				AverageMastery: avg,
				StruggleAreas:  areas,
				Reasons:        reasons,
			})
		}
	}
	if len(averages) > 0 {
		v := stat.Mean(averages, nil)
		sum.AverageMastery = &v
	}

	for id, learners := range struggling {
		if len(learners) >= StruggleSpotMinCount {
			sort.Strings(learners)
			sum.StruggleSpots = append(sum.StruggleSpots, StruggleSpot{SkillID: id, Students: learners})
		}
	}
	sort.Slice(sum.StruggleSpots, func(i, j int) bool {
		a, b := sum.StruggleSpots[i], sum.StruggleSpots[j]
		if len(a.Students) != len(b.Students) {
			return len(a.Students) > len(b.Students)
		}
		return a.SkillID < b.SkillID
	})
	sort.Slice(sum.AtRisk, func(i, j int) bool { return sum.AtRisk[i].LearnerID < sum.AtRisk[j].LearnerID })

	sum.WeeklyDeltas, sum.VelocityTrend = velocity(students, now)
	return sum
}

// velocity returns the average per-student mastery gained in each of the
// last 2*TrendWindowWeeks weeks (index 0 is the most recent week) and the
// trend comparing the recent half with the earlier half.
func velocity(students []StudentProgress, now time.Time) ([]float64, Trend) {
	weeks := 2 * TrendWindowWeeks
	deltas := make([]float64, weeks)
	seen := make([]bool, weeks)
	if len(students) == 0 {
		return deltas, TrendUnknown
	}
	for _, st := range students {
		bySkill := map[string][]MasteryPoint{}
		for _, p := range st.History {
			bySkill[p.SkillID] = append(bySkill[p.SkillID], p)
		}
		for _, pts := range bySkill {
			sort.SliceStable(pts, func(i, j int) bool { return pts[i].RecordedAt.Before(pts[j].RecordedAt) })
			for i := 1; i < len(pts); i++ {
				age := now.Sub(pts[i].RecordedAt)
				if age < 0 {
					continue
				}
				w := int(age / (7 * 24 * time.Hour))
				if w >= weeks {
					continue
				}
				deltas[w] += pts[i].PMastery - pts[i-1].PMastery
				seen[w] = true
			}
		}
	}
	n := float64(len(students))
	for i := range deltas {
		deltas[i] /= n
	}

	var recent, earlier float64
	var recentSeen, earlierSeen bool
	for i := 0; i < weeks; i++ {
		if i < TrendWindowWeeks {
			recent += deltas[i]
			recentSeen = recentSeen || seen[i]
		} else {
			earlier += deltas[i]
			earlierSeen = earlierSeen || seen[i]
		}
	}
	if !recentSeen || !earlierSeen {
		return deltas, TrendUnknown
	}
	recent /= TrendWindowWeeks
	earlier /= TrendWindowWeeks

	if earlier <= 0 {
		switch {
		case recent > earlier:
			return deltas, TrendAccelerating
		case recent < earlier:
			return deltas, TrendSlowing
		default:
			return deltas, TrendSteady
		}
	}
	switch r := recent / earlier; {
	case r > AcceleratingAbove:
		return deltas, TrendAccelerating
	case r < SlowingBelow:
		return deltas, TrendSlowing
	default:
		return deltas, TrendSteady
	}
}
