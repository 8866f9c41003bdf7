package domain

import (
	"fmt"
)

// GoalThresholds are the daily minimums a day must reach to count toward a streak.
type GoalThresholds struct {
	WaterCups       float64
	ExerciseMinutes float64
	SleepMinutes    float64
}

func DefaultGoalThresholds() GoalThresholds {
	return GoalThresholds{
		WaterCups:       8,
		ExerciseMinutes: 30,
		SleepMinutes:    420,
	}
}

// MissingHabitPolicy decides how a goal habit that was not supplied is judged.
type MissingHabitPolicy string

const (
	// MissingAsZero fails the goal of any habit that was not supplied.
	MissingAsZero MissingHabitPolicy = "zero"
	// MissingAsUntracked skips habits that were not supplied. At least one
	// goal habit must still be present for the day to count.
	MissingAsUntracked MissingHabitPolicy = "untracked"
)

func ParseMissingHabitPolicy(s string) (MissingHabitPolicy, error) {
	switch MissingHabitPolicy(s) {
	case "", MissingAsZero:
		return MissingAsZero, nil
	case MissingAsUntracked:
		return MissingAsUntracked, nil
	default:
		return "", fmt.Errorf("unknown missing habit policy %q (want %q or %q)", s, MissingAsZero, MissingAsUntracked)
	}
}

type goalCheck struct {
	flag      HabitMask
	value     func(Habits) float64
	threshold func(GoalThresholds) float64
}

var goalChecks = []goalCheck{
	{TrackWater, func(h Habits) float64 { return h.WaterCups }, func(g GoalThresholds) float64 { return g.WaterCups }},
	{TrackExercise, func(h Habits) float64 { return h.ExerciseMinutes }, func(g GoalThresholds) float64 { return g.ExerciseMinutes }},
	{TrackSleep, func(h Habits) float64 { return h.SleepMinutes }, func(g GoalThresholds) float64 { return g.SleepMinutes }},
}

// GoalsMet reports whether the habits reach every goal under the given policy.
func (g GoalThresholds) GoalsMet(h Habits, tracked HabitMask, policy MissingHabitPolicy) bool {
	checked := 0
	for _, gc := range goalChecks {
		if !tracked.Has(gc.flag) {
			if policy == MissingAsUntracked {
				continue
			}
			return false
		}
		if gc.value(h) < gc.threshold(g) {
			return false
		}
		checked++
	}
	return checked > 0
}
