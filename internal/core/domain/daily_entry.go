package domain

import (
	"time"
)

type Mood string

const (
	MoodVeryHappy Mood = "very_happy"
	MoodHappy     Mood = "happy"
	MoodNeutral   Mood = "neutral"
	MoodSad       Mood = "sad"
	MoodVerySad   Mood = "very_sad"
)

// Moods lists the accepted values in display order.
var Moods = []Mood{MoodVeryHappy, MoodHappy, MoodNeutral, MoodSad, MoodVerySad}

func (m Mood) IsValid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

const (
	MaxNoteLen = 500
	DayLayout  = "2006-01-02"
)

// Habits holds the four daily measurements. Absent values are stored as 0;
// TrackedHabits on the entry records which ones were actually supplied.
type Habits struct {
	WaterCups       float64 `json:"waterCups" db:"water_cups" bson:"waterCups"`
	ExerciseMinutes float64 `json:"exerciseMinutes" db:"exercise_minutes" bson:"exerciseMinutes"`
	SleepMinutes    float64 `json:"sleepMinutes" db:"sleep_minutes" bson:"sleepMinutes"`
	Weight          float64 `json:"weight" db:"weight" bson:"weight"`
}

type HabitMask uint8

const (
	TrackWater HabitMask = 1 << iota
	TrackExercise
	TrackSleep
	TrackWeight
)

func (m HabitMask) Has(flag HabitMask) bool {
	return m&flag != 0
}

type DailyEntry struct {
	ID     string    `json:"id" db:"id" bson:"_id"`
	UserID string    `json:"user" db:"user_id" bson:"user"`
	Date   time.Time `json:"date" db:"entry_date" bson:"date"`
	Mood   Mood      `json:"mood" db:"mood" bson:"mood"`
	Note   string    `json:"note" db:"note" bson:"note"`

	Habits        `json:"habits" bson:"habits"`
	TrackedHabits HabitMask `json:"-" db:"tracked_habits" bson:"trackedHabits"`

	StreakCount int `json:"streakCount" db:"streak_count" bson:"streakCount"`

	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// StartOfDay returns 00:00:00.000 UTC of t's UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 UTC of t's UTC calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

var dateLayouts = []string{
	DayLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDay parses a submitted date and returns the start of its UTC day.
// Layouts without an offset are read as UTC.
func ParseDay(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t), true
		}
	}
	return time.Time{}, false
}

// DayKey formats the calendar day used in cache keys and logs.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
