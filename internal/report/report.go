// Package report renders learner-model views as terminal text for the CLI.
package report

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpath/internal/analytics"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/planner"
	"github.com/abhisek/skillpath/internal/profile"
	"github.com/abhisek/skillpath/internal/spacedrep"
	"github.com/abhisek/skillpath/internal/tutor"
	"github.com/abhisek/skillpath/internal/zpd"
)

const barWidth = 20

func title(s string) string { return titleStyle.Render(s) }

func header(cols ...string) string {
	return headerStyle.Render(strings.Join(cols, "  "))
}

func empty(msg string) string { return hintStyle.Render(msg) }

func statusCell(s mastery.Status, width int) string {
	c := cell(string(s), width)
	switch s {
	case mastery.StatusMastered:
		return masteredStyle.Render(c)
	case mastery.StatusLearning:
		return learningStyle.Render(c)
	default:
		return hintStyle.Render(c)
	}
}

// Skills renders the states dashboard: one row per skill in the graph.
func Skills(states []tutor.SkillState, now time.Time) string {
	var b strings.Builder
	b.WriteString(title("Skills") + "\n")
	if len(states) == 0 {
		b.WriteString(empty("No skills in this notebook."))
		return b.String()
	}
	b.WriteString(header(cell("SKILL", 28), cell("STATUS", 12), cell("MASTERY", barWidth+5), cell("TRIES", 6), cell("SUPPORT", 16), "REVIEW") + "\n")
	mastered := 0
	for _, s := range states {
		st := s.State
		if st.Status == mastery.StatusMastered {
			mastered++
		}
		review := "-"
		switch st.Review.Status(now) {
		case spacedrep.StatusNotDue:
			review = fmt.Sprintf("in %dd", st.Review.DaysUntilReview(now))
		case spacedrep.StatusDue:
			review = "due"
		case spacedrep.StatusOverdue:
			review = warnStyle.Render("overdue")
		}
		b.WriteString(strings.Join([]string{
			cell(s.Skill.DisplayName(), 28),
			statusCell(st.Status, 12),
			cell(bar(st.PMastery, barWidth), barWidth+5),
			cell(fmt.Sprint(st.TotalAttempts), 6),
			cell(st.ScaffoldLevel.Label(), 16),
			review,
		}, "  ") + "\n")
	}
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d of %d skills mastered", mastered, len(states))))
	return b.String()
}

// Practice renders the outcome of one recorded attempt.
func Practice(skillName string, res tutor.PracticeResult) string {
	st := res.State
	lines := []string{
		title(skillName),
		fmt.Sprintf("Mastery  %s", bar(st.PMastery, barWidth)),
		fmt.Sprintf("Status   %s", statusCell(st.Status, 12)),
		fmt.Sprintf("Support  %s", st.ScaffoldLevel.Label()),
		fmt.Sprintf("Review   every %d day(s), quality %d", st.Review.IntervalDays, int(res.Quality)),
	}
	if tr := res.Transition; tr != nil {
		lines = append(lines, masteredStyle.Render(fmt.Sprintf("%s -> %s (%s)", tr.From, tr.To, tr.Trigger)))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Due renders due reviews.
func Due(due []spacedrep.DueSkill) string {
	var b strings.Builder
	b.WriteString(title("Due reviews") + "\n")
	if len(due) == 0 {
		b.WriteString(empty("Nothing due. Come back later."))
		return b.String()
	}
	b.WriteString(header(cell("SKILL", 28), cell("STATUS", 10), "OVERDUE") + "\n")
	for _, d := range due {
		status := cell(string(d.Status), 10)
		if d.Status == spacedrep.StatusOverdue {
			status = warnStyle.Render(status)
		}
		fmt.Fprintf(&b, "%s  %s  %.1fd\n", cell(d.SkillID, 28), status, d.OverdueDays)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Next renders the ZPD candidates.
func Next(cs []zpd.Candidate) string {
	var b strings.Builder
	b.WriteString(title("Ready to learn") + "\n")
	if len(cs) == 0 {
		b.WriteString(empty("No skills are ready. Keep practicing prerequisites."))
		return b.String()
	}
	b.WriteString(header(cell("SKILL", 28), cell("READINESS", barWidth+5), "PENDING") + "\n")
	for _, c := range cs {
		pending := "-"
		if len(c.PrerequisitesPending) > 0 {
			pending = strings.Join(c.PrerequisitesPending, ", ")
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", cell(c.Skill.DisplayName(), 28), cell(bar(c.ReadinessScore, barWidth), barWidth+5), pending)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Recommendation renders the next practice decision.
func Recommendation(rec tutor.Recommendation) string {
	if !rec.Found {
		return empty("Nothing left to practice in this notebook.")
	}
	s := rec.Slot
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title("Next: "+s.SkillName),
		bodyStyle.Render(fmt.Sprintf("%s, %s", s.Category, s.Reason)),
		bodyStyle.Render("Support: "+s.ScaffoldLevel.Label()),
	))
}

// Profile renders an inverse profile with its insights.
func Profile(p profile.InverseProfile, insights []profile.Insight, warnings []string) string {
	k, c, m, mo, bh := p.Knowledge, p.Cognitive, p.Metacognitive, p.Motivational, p.Behavioral
	conf := func(d profile.Dimension) string {
		return hintStyle.Render(fmt.Sprintf("confidence %.0f%%", p.ConfidenceScores.Get(d)*100))
	}
	sections := []string{
		title(fmt.Sprintf("Profile v%d", p.Version)) + hintStyle.Render(fmt.Sprintf("  %d interactions, %s", p.InteractionsAnalyzed, p.ComputedAt.Format(time.RFC3339))),
		headerStyle.Render("Knowledge") + "  " + conf(profile.DimensionKnowledge),
		fmt.Sprintf("  average mastery %s, %d mastered, %d learning, %d not started",
			pct(k.AverageMastery), k.StatusCounts.Mastered, k.StatusCounts.Learning, k.StatusCounts.NotStarted),
		headerStyle.Render("Cognitive") + "  " + conf(profile.DimensionCognitive),
		fmt.Sprintf("  expertise %s, working memory %s, accuracy %s", c.Expertise, c.WorkingMemory, pct(c.Accuracy)),
		headerStyle.Render("Metacognitive") + "  " + conf(profile.DimensionMetacognitive),
		fmt.Sprintf("  calibration %s, help seeking %s", pct(m.CalibrationAccuracy), m.HelpSeeking),
		headerStyle.Render("Motivational") + "  " + conf(profile.DimensionMotivational),
		fmt.Sprintf("  %s sessions/week, persistence %s, goal %s", num(mo.SessionsPerWeek, "%.1f"), pct(mo.PersistenceScore), mo.GoalOrientation),
		headerStyle.Render("Behavioral") + "  " + conf(profile.DimensionBehavioral),
		fmt.Sprintf("  prefers %s on %s, velocity %s skills/week", bh.PreferredTimeOfDay, bh.PreferredDayOfWeek, num(bh.LearningVelocity, "%.2f")),
	}
	if len(insights) > 0 {
		sections = append(sections, headerStyle.Render("Insights"))
		for _, in := range insights {
			style := bodyStyle
			if in.Kind == profile.InsightStrength {
				style = masteredStyle
			}
			sections = append(sections, "  "+style.Render(in.Message))
		}
	}
	for _, w := range warnings {
		sections = append(sections, hintStyle.Render("  note: "+w))
	}
	return strings.Join(sections, "\n")
}

// Gain renders a learning-gain report.
func Gain(g analytics.LearningGain) string {
	var b strings.Builder
	b.WriteString(title("Learning gain") + hintStyle.Render(fmt.Sprintf("  %s to %s", g.From.Format(time.DateOnly), g.To.Format(time.DateOnly))) + "\n")
	if len(g.Skills) == 0 {
		b.WriteString(empty("Not enough history in this period."))
		return b.String()
	}
	b.WriteString(header(cell("SKILL", 28), cell("PRE", 6), cell("POST", 6), "GAIN") + "\n")
	for _, s := range g.Skills {
		gain := fmt.Sprintf("%+.2f", s.Gain)
		if s.AtCeiling {
			gain = hintStyle.Render("ceiling")
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n", cell(s.SkillID, 28), cell(fmt.Sprintf("%.2f", s.Pre), 6), cell(fmt.Sprintf("%.2f", s.Post), 6), gain)
	}
	b.WriteString(hintStyle.Render(fmt.Sprintf("average %s over %d skills", num(g.AverageGain, "%+.2f"), g.SkillsMeasured)))
	return b.String()
}

// Retention renders retention metrics.
func Retention(r analytics.RetentionSummary) string {
	var b strings.Builder
	b.WriteString(title("Retention") + "\n")
	if len(r.Skills) == 0 {
		b.WriteString(empty("No mastered skills to measure yet."))
		return b.String()
	}
	b.WriteString(header(cell("SKILL", 28), cell("PREDICTED", barWidth+5), cell("OBSERVED", 9), "") + "\n")
	for _, s := range r.Skills {
		flag := ""
		if s.NeedsReview {
			flag = warnStyle.Render("review")
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n", cell(s.SkillID, 28), cell(bar(s.PredictedRetention, barWidth), barWidth+5), cell(pct(s.RetentionRate), 9), flag)
	}
	b.WriteString(hintStyle.Render("average observed retention " + pct(r.AverageRetention)))
	return b.String()
}

// Transfer renders transfer metrics.
func Transfer(t analytics.TransferSummary) string {
	var b strings.Builder
	b.WriteString(title("Transfer") + "\n")
	if len(t.Skills) == 0 {
		b.WriteString(empty("No practice attempts yet."))
		return b.String()
	}
	b.WriteString(header(cell("SKILL", 28), cell("PRACTICE", 9), cell("NOVEL", 9), "RATIO") + "\n")
	row := func(name string, m analytics.TransferMetrics) {
		ratio := num(m.TransferRatio, "%.2f")
		if m.RoteKnowledge {
			ratio += " " + warnStyle.Render("rote")
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n", cell(name, 28), cell(pct(m.PracticeAccuracy), 9), cell(pct(m.TransferAccuracy), 9), ratio)
	}
	for _, m := range t.Skills {
		row(m.SkillID, m)
	}
	row(headerStyle.Render("overall"), t.Overall)
	return strings.TrimSuffix(b.String(), "\n")
}

// Cohort renders the class-wide view.
func Cohort(c analytics.CohortSummary) string {
	var b strings.Builder
	b.WriteString(title(fmt.Sprintf("Cohort of %d", c.StudentCount)) + hintStyle.Render("  average mastery "+pct(c.AverageMastery)) + "\n")

	peak := 0
	for _, band := range c.Distribution {
		peak = max(peak, band.Count)
	}
	for _, band := range c.Distribution {
		frac := 0.0
		if peak > 0 {
			frac = float64(band.Count) / float64(peak)
		}
		filled := int(frac * barWidth)
		fmt.Fprintf(&b, "%s  %s %d\n", cell(band.Label, 8),
			barFilled.Render(strings.Repeat(" ", filled))+barEmpty.Render(strings.Repeat(" ", barWidth-filled)), band.Count)
	}

	if len(c.StruggleSpots) > 0 {
		b.WriteString(headerStyle.Render("Struggle spots") + "\n")
		for _, s := range c.StruggleSpots {
			fmt.Fprintf(&b, "  %s  %s\n", cell(s.SkillID, 26), strings.Join(s.Students, ", "))
		}
	}
	if len(c.AtRisk) > 0 {
		b.WriteString(headerStyle.Render("At risk") + "\n")
		for _, s := range c.AtRisk {
			fmt.Fprintf(&b, "  %s  %s\n", warnStyle.Render(cell(s.LearnerID, 26)), strings.Join(s.Reasons, "; "))
		}
	}
	b.WriteString(hintStyle.Render("velocity " + string(c.VelocityTrend)))
	return b.String()
}

// Plan renders a practice session plan.
func Plan(p planner.Plan) string {
	var b strings.Builder
	b.WriteString(title("Session plan") + "\n")
	if len(p.Slots) == 0 {
		b.WriteString(empty("Nothing to practice."))
		return b.String()
	}
	for i, s := range p.Slots {
		fmt.Fprintf(&b, "%d. %s  %s  %s\n", i+1, cell(s.SkillName, 28), cell(string(s.Category), 9), hintStyle.Render(s.ScaffoldLevel.Label()))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
