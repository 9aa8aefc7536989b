package profile

import "time"

// TimeOfDay is a coarse part of the day.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
	TimeUnknown   TimeOfDay = "unknown"
)

// timeOfDayBuckets maps clock hours to parts of the day. Each entry covers
// hours up to and including LastHour; the table wraps at midnight through
// the final night entry.
var timeOfDayBuckets = []struct {
	LastHour int
	Bucket   TimeOfDay
}{
	{5, TimeNight},
	{11, TimeMorning},
	{16, TimeAfternoon},
	{20, TimeEvening},
	{23, TimeNight},
}

// TimeOfDayOf returns the part of the day for a clock hour in [0, 23].
func TimeOfDayOf(hour int) TimeOfDay {
	for _, b := range timeOfDayBuckets {
		if hour <= b.LastHour {
			return b.Bucket
		}
	}
	return TimeUnknown
}

// DifficultyBucket is a fifth of the [0, 1] difficulty range.
type DifficultyBucket string

const (
	DifficultyVeryEasy DifficultyBucket = "very_easy"
	DifficultyEasy     DifficultyBucket = "easy"
	DifficultyMedium   DifficultyBucket = "medium"
	DifficultyHard     DifficultyBucket = "hard"
	DifficultyVeryHard DifficultyBucket = "very_hard"
)

// difficultyBuckets lists buckets in ascending order. A difficulty belongs
// to the first bucket whose upper bound it is strictly below; 1.0 falls in
// the last bucket.
var difficultyBuckets = []struct {
	Upper  float64
	Bucket DifficultyBucket
}{
	{0.2, DifficultyVeryEasy},
	{0.4, DifficultyEasy},
	{0.6, DifficultyMedium},
	{0.8, DifficultyHard},
	{1.0, DifficultyVeryHard},
}

// DifficultyBucketOf returns the bucket for a difficulty in [0, 1]. Values
// outside the range are clamped.
func DifficultyBucketOf(d float64) DifficultyBucket {
	for _, b := range difficultyBuckets {
		if d < b.Upper {
			return b.Bucket
		}
	}
	return DifficultyVeryHard
}

// Rank returns the bucket's position in ascending difficulty, or -1.
func (b DifficultyBucket) Rank() int {
	for i, e := range difficultyBuckets {
		if e.Bucket == b {
			return i
		}
	}
	return -1
}

// DayOfWeek is a lower-case weekday name or "unknown".
type DayOfWeek string

// DayUnknown marks a day of week that could not be determined.
const DayUnknown DayOfWeek = "unknown"

func dayOf(d time.Weekday) DayOfWeek {
	switch d {
	case time.Sunday:
		return "sunday"
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	}
	return DayUnknown
}
