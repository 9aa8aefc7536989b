package profile

import (
	"testing"
	"time"

	"github.com/abhisek/skillpath/internal/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehavioral_Full(t *testing.T) {
	tuesdayEvening := monday.AddDate(0, 0, 1).Add(9 * time.Hour) // 18:00
	is := []interaction.Interaction{
		practice(t, "a", false, tuesdayEvening, answer("1/2")),
		hint(t, "a", 9000, tuesdayEvening.Add(minutes(1))),
		practice(t, "a", false, tuesdayEvening.Add(minutes(2)), answer("1/2")),
		practice(t, "a", true, tuesdayEvening.Add(minutes(3))),
		practice(t, "b", false, tuesdayEvening.Add(minutes(4)), answer("7")),
		practice(t, "b", true, monday),
	}

	b, warnings := Behavioral(Window{Interactions: is})
	assert.Empty(t, warnings)
	assert.Equal(t, TimeEvening, b.PreferredTimeOfDay)
	assert.Equal(t, DayOfWeek("tuesday"), b.PreferredDayOfWeek)
	assert.Equal(t, 5, b.TimeOfDayHistogram[TimeEvening])
	assert.Equal(t, 1, b.TimeOfDayHistogram[TimeMorning])

	require.NotNil(t, b.HintUsageRate)
	assert.InDelta(t, 0.2, *b.HintUsageRate, 1e-9)

	require.Len(t, b.SystematicErrors, 1)
	assert.Equal(t, SystematicError{SkillID: "a", Answer: "1/2", Count: 2}, b.SystematicErrors[0])
	assert.Equal(t, []string{"a"}, b.SystematicErrorSkills())

	require.NotNil(t, b.LearningVelocity)
	assert.InDelta(t, 2, *b.LearningVelocity, 1e-9)
}

func TestBehavioral_Location(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*3600)
	var is []interaction.Interaction
	for i := 0; i < 5; i++ {
		// 09:00 UTC is 23:00 the previous day at UTC-10.
		is = append(is, practice(t, "a", true, monday.Add(minutes(i))))
	}
	b, _ := Behavioral(Window{Interactions: is, Location: loc})
	assert.Equal(t, TimeNight, b.PreferredTimeOfDay)
	assert.Equal(t, DayOfWeek("sunday"), b.PreferredDayOfWeek)
}

func TestBehavioral_BelowMinimum(t *testing.T) {
	b, warnings := Behavioral(Window{Interactions: []interaction.Interaction{practice(t, "a", true, monday)}})
	assert.Equal(t, TimeUnknown, b.PreferredTimeOfDay)
	assert.Equal(t, DayUnknown, b.PreferredDayOfWeek)
	assert.Nil(t, b.HintUsageRate)
	assert.Len(t, warnings, 1)
}
