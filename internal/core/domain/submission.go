package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Submission is the untrusted daily entry body. Every field keeps its raw JSON
// so that "absent", "null" and "wrong type" can be told apart during validation.
// Fields outside this set, streakCount included, are dropped when decoding.
type Submission struct {
	User   json.RawMessage `json:"user" swaggertype:"string"`
	Date   json.RawMessage `json:"date" swaggertype:"string"`
	Mood   json.RawMessage `json:"mood" swaggertype:"string"`
	Note   json.RawMessage `json:"note" swaggertype:"string"`
	Habits json.RawMessage `json:"habits" swaggertype:"object"`
}

// CanonicalEntry is the field-limited, defaulted record produced by the Normalizer.
type CanonicalEntry struct {
	UserID        string
	DateText      string
	Date          time.Time
	Mood          Mood
	Note          string
	Habits        Habits
	TrackedHabits HabitMask
	StreakCount   int
}

// ToEntry builds the entry to persist. ID and timestamps are left to the store.
func (c CanonicalEntry) ToEntry() *DailyEntry {
	return &DailyEntry{
		UserID:        c.UserID,
		Date:          c.Date,
		Mood:          c.Mood,
		Note:          c.Note,
		Habits:        c.Habits,
		TrackedHabits: c.TrackedHabits,
		StreakCount:   c.StreakCount,
	}
}

type habitField struct {
	name string
	flag HabitMask
	set  func(*Habits, float64)
}

var habitFields = []habitField{
	{"waterCups", TrackWater, func(h *Habits, v float64) { h.WaterCups = v }},
	{"exerciseMinutes", TrackExercise, func(h *Habits, v float64) { h.ExerciseMinutes = v }},
	{"sleepMinutes", TrackSleep, func(h *Habits, v float64) { h.SleepMinutes = v }},
	{"weight", TrackWeight, func(h *Habits, v float64) { h.Weight = v }},
}

var jsonNull = []byte("null")

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, jsonNull)
}

func asString(raw json.RawMessage) (string, bool) {
	if !present(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asNumber(raw json.RawMessage) (float64, bool) {
	if !present(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if !present(raw) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}
