package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpath/internal/graphsource"
	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/planner"
	"github.com/abhisek/skillpath/internal/scaffold"
	"github.com/abhisek/skillpath/internal/skillgraph"
	"github.com/abhisek/skillpath/internal/spacedrep"
	"github.com/abhisek/skillpath/internal/store"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// clock is a settable time source for the service.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func testSkills() ([]skillgraph.SkillNode, []skillgraph.Prerequisite) {
	skills := []skillgraph.SkillNode{
		{ID: "counting", Name: "Counting", BloomLevel: skillgraph.BloomRemember, Difficulty: 0.1},
		{ID: "addition", Name: "Addition", BloomLevel: skillgraph.BloomApply, Difficulty: 0.3},
		{ID: "fractions", Name: "Fractions", BloomLevel: skillgraph.BloomUnderstand, Difficulty: 0.6, IsThresholdConcept: true,
			BKT: &skillgraph.SkillParams{PL0: 0.1, PT: 0.2, PS: 0.05, PG: 0.25}},
	}
	edges := []skillgraph.Prerequisite{
		{FromSkillID: "counting", ToSkillID: "addition", Strength: skillgraph.StrengthRequired},
		{FromSkillID: "addition", ToSkillID: "fractions", Strength: skillgraph.StrengthRecommended},
	}
	return skills, edges
}

func newTestService(t *testing.T) (*Service, *store.Store, *clock) {
	t.Helper()
	st, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c := &clock{now: t0}
	opts := DefaultOptions()
	opts.Now = c.Now
	svc, err := New(FromStore(st), graphsource.StoreSource{Repo: st.GraphRepo()}, opts, nil)
	require.NoError(t, err)

	skills, edges := testSkills()
	_, err = svc.ImportGraph(context.Background(), "nb", skills, edges)
	require.NoError(t, err)
	return svc, st, c
}

func practiceAt(skill string, correct bool, at time.Time) PracticeInput {
	return PracticeInput{LearnerID: "ada", NotebookID: "nb", SkillID: skill, IsCorrect: correct, At: at}
}

func TestRecordPractice_BKTTraceAndScaffold(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	wantP := []float64{0.6926829268292684, 0.9192307692307693, 0.9827633378932968}
	wantLevel := []scaffold.Level{scaffold.LevelHints, scaffold.LevelIndependent, scaffold.LevelIndependent}
	var transitions []*mastery.StateTransition
	for i := range wantP {
		res, err := svc.RecordPractice(ctx, practiceAt("counting", true, t0.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		assert.InDelta(t, wantP[i], res.State.PMastery, 1e-12, "attempt %d", i+1)
		assert.Equal(t, wantLevel[i], res.State.ScaffoldLevel, "attempt %d", i+1)
		assert.Equal(t, spacedrep.QualityGood, res.Quality)
		assert.NotEmpty(t, res.InteractionID)
		transitions = append(transitions, res.Transition)
	}

	require.NotNil(t, transitions[0])
	assert.Equal(t, mastery.TriggerFirstAttempt, transitions[0].Trigger)
	require.NotNil(t, transitions[1])
	assert.Equal(t, mastery.StatusMastered, transitions[1].To)
	assert.Nil(t, transitions[2])

	states, err := svc.States(ctx, "ada", "nb")
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, "counting", states[0].Skill.ID)
	assert.Equal(t, 3, states[0].State.Review.Repetitions)
	assert.Equal(t, 15, states[0].State.Review.IntervalDays, "1, 6, then round(6*EF)")
	assert.Equal(t, mastery.StatusNotStarted, states[1].State.Status)
}

func TestRecordPractice_ThresholdConceptAndSkillParams(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.RecordPractice(ctx, practiceAt("fractions", true, t0))
	require.NoError(t, err)
	assert.Equal(t, 0.9, res.State.MasteryThreshold)
	assert.Equal(t, mastery.DefaultParams(), res.State.Params, "skill params are off by default")

	cfg := mastery.DefaultConfig()
	cfg.UseSkillSpecific = true
	_, err = svc.UpdateSettings(ctx, "nb", SettingsUpdate{Mastery: &cfg})
	require.NoError(t, err)

	res, err = svc.RecordPractice(ctx, PracticeInput{LearnerID: "bob", NotebookID: "nb", SkillID: "fractions", IsCorrect: true, At: t0})
	require.NoError(t, err)
	assert.Equal(t, mastery.Params{PL0: 0.1, PT: 0.2, PS: 0.05, PG: 0.25}, res.State.Params)
}

func TestRecordPractice_Invalid(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordPractice(ctx, practiceAt("nope", true, t0))
	assert.True(t, IsInvalidInput(err), "unknown skill: %v", err)
	assert.False(t, IsFeatureUnavailable(err))

	_, err = svc.RecordPractice(ctx, PracticeInput{NotebookID: "nb", SkillID: "counting"})
	assert.True(t, IsInvalidInput(err), "missing learner: %v", err)

	neg := float64(2)
	in := practiceAt("counting", true, t0)
	in.Difficulty = &neg
	_, err = svc.RecordPractice(ctx, in)
	assert.True(t, IsInvalidInput(err), "difficulty out of range: %v", err)
}

func TestRecordPractice_HintsAndSpeedSetQuality(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	fast := int64(3000)
	in := practiceAt("counting", true, t0)
	in.ResponseTimeMs = &fast
	res, err := svc.RecordPractice(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, spacedrep.QualityPerfect, res.Quality)

	in = practiceAt("counting", false, t0.Add(time.Minute))
	in.HintsUsed = 2
	res, err = svc.RecordPractice(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, spacedrep.QualityBlackout, res.Quality)
	assert.Equal(t, 0, res.State.Review.Repetitions)
	assert.Equal(t, 1, res.State.Review.IntervalDays)
}

func TestDueReviewsAndRecommend(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Recommend(ctx, "ada", "nb")
	require.NoError(t, err)
	require.True(t, rec.Found)
	assert.Equal(t, "counting", rec.Slot.SkillID, "easiest ready skill first")
	assert.Equal(t, planner.CategoryFrontier, rec.Slot.Category)
	assert.Equal(t, scaffold.LevelFadedExamples, rec.Slot.ScaffoldLevel, "prior 0.3 sits on the first boundary")

	_, err = svc.RecordPractice(ctx, practiceAt("counting", true, t0))
	require.NoError(t, err)

	due, err := svc.DueReviews(ctx, "ada", "nb")
	require.NoError(t, err)
	assert.Empty(t, due)

	c.now = t0.Add(3 * 24 * time.Hour)
	due, err = svc.DueReviews(ctx, "ada", "nb")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "counting", due[0].SkillID)
	assert.Equal(t, spacedrep.StatusOverdue, due[0].Status)

	rec, err = svc.Recommend(ctx, "ada", "nb")
	require.NoError(t, err)
	assert.Equal(t, planner.CategoryReview, rec.Slot.Category, "due review wins")

	plan, err := svc.Plan(ctx, "ada", "nb", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Slots)
}

func TestNextSkills(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.RecordPractice(ctx, practiceAt("counting", true, t0.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	next, err := svc.NextSkills(ctx, "ada", "nb")
	require.NoError(t, err)
	ids := make([]string, len(next))
	for i, c := range next {
		ids[i] = c.Skill.ID
	}
	assert.Equal(t, []string{"addition", "fractions"}, ids, "fractions only recommends addition")
}

func TestSessionsFollowPractice(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, "ada", "nb", "s1", t0)
	require.NoError(t, err)
	in := practiceAt("counting", true, t0.Add(time.Minute))
	in.SessionID = "s1"
	_, err = svc.RecordPractice(ctx, in)
	require.NoError(t, err)

	sess, err := svc.EndSession(ctx, "s1", t0.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"counting"}, sess.SkillsPracticed)
	require.NotNil(t, sess.DurationMs)
	assert.Equal(t, int64(10*60*1000), *sess.DurationMs)

	_, err = svc.EndSession(ctx, "s1", t0.Add(11*time.Minute))
	assert.True(t, IsInvalidInput(err), "closing twice: %v", err)

	is, err := st.InteractionRepo().List(ctx, "ada", "nb", store.QueryOpts{})
	require.NoError(t, err)
	types := make([]interaction.EventType, len(is))
	for i, it := range is {
		types[i] = it.EventType
	}
	assert.Equal(t, []interaction.EventType{
		interaction.EventSessionStarted, interaction.EventPracticeAttempt, interaction.EventSessionEnded,
	}, types)
}

func TestComputeProfileVersions(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.RecordPractice(ctx, practiceAt("counting", i%3 != 0, t0.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	c.now = t0.Add(time.Hour)

	first, err := svc.ComputeProfile(ctx, "ada", "nb")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Profile.Version)
	assert.Equal(t, 12, first.Profile.InteractionsAnalyzed)
	assert.Contains(t, first.Warnings, "sessions derived from interactions: 1")

	next, err := svc.NextSkills(ctx, "ada", "nb")
	require.NoError(t, err)
	var nextIDs []string
	for _, c := range next {
		nextIDs = append(nextIDs, c.Skill.ID)
	}
	assert.Equal(t, nextIDs, first.Profile.Knowledge.ZPDSkills, "profile ZPD matches next skills")

	second, err := svc.ComputeProfile(ctx, "ada", "nb")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Profile.Version)
	assert.Equal(t, first.Profile.Knowledge, second.Profile.Knowledge, "same window, same result")

	latest, err := svc.LatestProfile(ctx, "ada", "nb")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Version)
}

func TestUpdateSettingsValidatesBeforeStoring(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	bad := scaffold.Thresholds{0.5, 0.4, 0.7}
	_, err := svc.UpdateSettings(ctx, "nb", SettingsUpdate{Scaffold: &bad})
	assert.True(t, IsInvalidInput(err))

	cfg := mastery.DefaultConfig()
	cfg.Defaults.PS = 1.2
	_, err = svc.UpdateSettings(ctx, "nb", SettingsUpdate{Mastery: &cfg})
	var pe *mastery.ParamError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "ps", pe.Field)

	ns, err := svc.Settings(ctx, "nb")
	require.NoError(t, err)
	assert.Equal(t, scaffold.DefaultThresholds(), ns.Scaffold, "nothing stored")

	good := scaffold.Thresholds{0.2, 0.4, 0.6}
	ns, err = svc.UpdateSettings(ctx, "nb", SettingsUpdate{Scaffold: &good})
	require.NoError(t, err)
	assert.Equal(t, good, ns.Scaffold)

	res, err := svc.RecordPractice(ctx, practiceAt("counting", true, t0))
	require.NoError(t, err)
	assert.Equal(t, scaffold.LevelIndependent, res.State.ScaffoldLevel, "0.69 is above the new 0.6 boundary")
}

func TestAnalytics(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.RecordPractice(ctx, practiceAt("counting", true, t0.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}
	novel := practiceAt("counting", true, t0.Add(4*time.Hour))
	novel.IsNovel = true
	_, err := svc.RecordPractice(ctx, novel)
	require.NoError(t, err)
	c.now = t0.Add(48 * time.Hour)

	gain, err := svc.LearningGain(ctx, "ada", "nb", t0.Add(-time.Hour), time.Time{})
	require.NoError(t, err)
	assert.NotEmpty(t, gain.Skills)

	_, err = svc.LearningGain(ctx, "ada", "nb", c.now.Add(time.Hour), c.now)
	assert.True(t, IsInvalidInput(err))

	_, err = svc.Retention(ctx, "ada", "nb")
	require.NoError(t, err)

	tr, err := svc.Transfer(ctx, "ada", "nb")
	require.NoError(t, err)
	require.Len(t, tr.Skills, 1)
}

func TestCohortOverview(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	for _, learner := range []string{"ada", "bob", "cy"} {
		in := practiceAt("counting", learner != "cy", t0)
		in.LearnerID = learner
		_, err := svc.RecordPractice(ctx, in)
		require.NoError(t, err)
	}
	c.now = t0.Add(24 * time.Hour)

	sum, err := svc.CohortOverview(ctx, "nb", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.StudentCount)

	sum, err = svc.CohortOverview(ctx, "nb", []string{"ada"})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.StudentCount)
}

func TestImportEvents(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	mk := func(typ interaction.EventType, skill string, payload any, at time.Time) interaction.Interaction {
		it, err := interaction.New("ada", "nb", typ, skill, payload, at)
		require.NoError(t, err)
		it.SessionID = "s9"
		return it
	}
	events := []interaction.Interaction{
		mk(interaction.EventSessionEnded, "", nil, t0.Add(30*time.Minute)),
		mk(interaction.EventPracticeAttempt, "counting", interaction.PracticeAttempt{IsCorrect: true}, t0.Add(time.Minute)),
		mk(interaction.EventSessionStarted, "", nil, t0),
		mk(interaction.EventConfidenceRated, "counting", map[string]any{"rating": 0, "scale": 5}, t0.Add(2*time.Minute)),
		mk("teleported", "", nil, t0.Add(3*time.Minute)),
	}
	rep, err := svc.ImportEvents(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Imported)
	assert.Equal(t, 2, rep.Skipped)
	assert.Len(t, rep.Errors, 2)

	sess, err := st.SessionRepo().Get(ctx, "s9")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.False(t, sess.Open())
	assert.Equal(t, []string{"counting"}, sess.SkillsPracticed)

	states, err := st.SkillStateRepo().List(ctx, "ada", "nb")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, 1, states[0].TotalAttempts)
}

func TestResetLearner(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordPractice(ctx, practiceAt("counting", true, t0))
	require.NoError(t, err)
	require.NoError(t, svc.ResetLearner(ctx, "ada", "nb"))

	states, err := st.SkillStateRepo().List(ctx, "ada", "nb")
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestImportGraphRejectsCycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	skills := []skillgraph.SkillNode{{ID: "a"}, {ID: "b"}}
	edges := []skillgraph.Prerequisite{
		{FromSkillID: "a", ToSkillID: "b", Strength: skillgraph.StrengthRequired},
		{FromSkillID: "b", ToSkillID: "a", Strength: skillgraph.StrengthRequired},
	}
	_, err := svc.ImportGraph(context.Background(), "nb2", skills, edges)
	assert.True(t, IsInvalidInput(err))
}

// countingSource counts loads and can be told to fail.
type countingSource struct {
	loads int
	err   error
}

func (c *countingSource) Load(ctx context.Context, notebookID string) (*skillgraph.Graph, error) {
	c.loads++
	if c.err != nil {
		return nil, c.err
	}
	skills, edges := testSkills()
	return skillgraph.New(skills, edges)
}

// failingStates is a SkillStateRepo whose every call fails.
type failingStates struct{ store.SkillStateRepo }

var errDown = errors.New("database is down")

func (failingStates) List(context.Context, string, string) ([]mastery.LearnerSkillState, error) {
	return nil, errDown
}

func (failingStates) Learners(context.Context, string) ([]string, error) {
	return nil, errDown
}

// abortingStates runs the real transactional Record but fails inside it,
// after the interaction insert and before the state is written.
type abortingStates struct{ store.SkillStateRepo }

func (a abortingStates) Record(ctx context.Context, key store.StateKey, it *interaction.Interaction, fn store.UpdateFunc) (mastery.LearnerSkillState, error) {
	return a.SkillStateRepo.Record(ctx, key, it, func(*mastery.LearnerSkillState) (mastery.LearnerSkillState, *mastery.StateTransition, error) {
		return mastery.LearnerSkillState{}, nil, errDown
	})
}

func TestRecordPractice_FailedStateUpdateStoresNothing(t *testing.T) {
	_, st, _ := newTestService(t)
	ctx := context.Background()

	repos := FromStore(st)
	repos.States = abortingStates{repos.States}
	svc, err := New(repos, graphsource.StoreSource{Repo: st.GraphRepo()}, DefaultOptions(), nil)
	require.NoError(t, err)

	_, err = svc.RecordPractice(ctx, practiceAt("counting", true, t0))
	var fe *FeatureUnavailableError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FeatureStates, fe.Feature)

	logged, err := st.InteractionRepo().List(ctx, "ada", "nb", store.QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, logged)

	states, err := st.SkillStateRepo().List(ctx, "ada", "nb")
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestGraphIsCached(t *testing.T) {
	src := &countingSource{}
	svc, err := New(Repos{}, src, DefaultOptions(), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Graph(context.Background(), "nb")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.loads)

	skills, edges := testSkills()
	_, err = svc.ImportGraph(context.Background(), "nb", skills, edges)
	assert.True(t, IsFeatureUnavailable(err), "read-only source: %v", err)
}

func TestRepositoryFailuresAreFeatureUnavailable(t *testing.T) {
	svc, err := New(Repos{States: failingStates{}}, &countingSource{}, DefaultOptions(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.DueReviews(ctx, "ada", "nb")
	var fe *FeatureUnavailableError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FeatureStates, fe.Feature)
	assert.ErrorIs(t, err, errDown)

	_, err = svc.CohortOverview(ctx, "nb", nil)
	assert.True(t, IsFeatureUnavailable(err))

	broken, err := New(Repos{}, &countingSource{err: errDown}, DefaultOptions(), nil)
	require.NoError(t, err)
	_, err = broken.Graph(ctx, "nb")
	assert.True(t, IsFeatureUnavailable(err))
}
