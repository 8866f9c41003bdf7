package domain

import (
	"time"
)

type StreakEngine struct {
	Goals  GoalThresholds
	Policy MissingHabitPolicy
}

func NewStreakEngine(goals GoalThresholds, policy MissingHabitPolicy) StreakEngine {
	return StreakEngine{Goals: goals, Policy: policy}
}

func (e StreakEngine) GoalsMet(h Habits, tracked HabitMask) bool {
	return e.Goals.GoalsMet(h, tracked, e.Policy)
}

// Compute returns the streak to store for the entry on date, given yesterday's
// stored entry (nil when there is none). A missed day resets to 0, Sunday starts
// a new weekly period at 1, otherwise a qualifying yesterday is extended by one.
func (e StreakEngine) Compute(h Habits, tracked HabitMask, date time.Time, yesterday *DailyEntry) int {
	if !e.GoalsMet(h, tracked) {
		return 0
	}

	if date.UTC().Weekday() == time.Sunday {
		return 1
	}

	if yesterday != nil && e.GoalsMet(yesterday.Habits, yesterday.TrackedHabits) {
		return yesterday.StreakCount + 1
	}

	return 1
}
