package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Normalizer turns a Submission into a CanonicalEntry. It never fails: anything
// it cannot coerce is defaulted and left for the Validator to report.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

func (n *Normalizer) Normalize(sub Submission) CanonicalEntry {
	var c CanonicalEntry

	if s, ok := asString(sub.User); ok {
		c.UserID = strings.TrimSpace(s)
	}

	if s, ok := asString(sub.Date); ok {
		c.DateText = strings.TrimSpace(s)
	}
	if c.DateText == "" && !presentNonString(sub.Date) {
		c.DateText = n.now().UTC().Format(DayLayout)
	}

	if s, ok := asString(sub.Mood); ok {
		c.Mood = Mood(strings.TrimSpace(s))
	}

	if s, ok := asString(sub.Note); ok {
		c.Note = s
	}

	if obj, ok := asObject(sub.Habits); ok {
		for _, f := range habitFields {
			v, ok := coerceNumber(obj[f.name])
			if !ok {
				continue
			}
			f.set(&c.Habits, v)
			c.TrackedHabits |= f.flag
		}
	}

	c.StreakCount = 0
	return c
}

func presentNonString(raw []byte) bool {
	if !present(raw) {
		return false
	}
	_, isString := asString(raw)
	return !isString
}

// coerceNumber accepts JSON numbers and strings holding a number.
func coerceNumber(raw []byte) (float64, bool) {
	if v, ok := asNumber(raw); ok {
		return v, true
	}
	s, ok := asString(raw)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
