package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var moodList = func() string {
	names := make([]string, 0, len(Moods))
	for _, m := range Moods {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}()

// Validate runs every check against the normalized record and the original
// submission, collecting all failures in order. On success c.Date holds the
// UTC midnight of the submitted day.
func Validate(sub Submission, c *CanonicalEntry) error {
	verr := NewValidationError()

	switch {
	case c.UserID != "":
	case presentNonString(sub.User):
		verr.Add("user", CodeInvalidType, "user must be a string")
	default:
		verr.Add("user", CodeRequired, "user is required")
	}

	switch {
	case c.DateText == "" && presentNonString(sub.Date):
		verr.Add("date", CodeInvalidFormat, "invalid date format, expected YYYY-MM-DD or RFC3339")
	case c.DateText == "":
		verr.Add("date", CodeRequired, "date is required")
	default:
		day, ok := ParseDay(c.DateText)
		if !ok {
			verr.Add("date", CodeInvalidFormat, "invalid date format, expected YYYY-MM-DD or RFC3339")
		} else {
			c.Date = day
		}
	}

	switch {
	case c.Mood.IsValid():
	case !present(sub.Mood):
		verr.Add("mood", CodeRequired, "mood is required")
	default:
		verr.Add("mood", CodeInvalidValue, "mood must be one of: "+moodList)
	}

	if presentNonString(sub.Note) {
		verr.Add("note", CodeInvalidType, "note must be a string")
	}
	if utf8.RuneCountInString(c.Note) > MaxNoteLen {
		verr.Add("note", CodeTooLong, fmt.Sprintf("note cannot exceed %d characters", MaxNoteLen))
	}

	if present(sub.Habits) {
		obj, ok := asObject(sub.Habits)
		if !ok {
			verr.Add("habits", CodeInvalidType, "habits must be an object")
		}
		for _, f := range habitFields {
			raw := obj[f.name]
			if !present(raw) {
				continue
			}
			v, ok := asNumber(raw)
			if !ok {
				verr.Add("habits."+f.name, CodeInvalidType, f.name+" must be a number")
				continue
			}
			if v < 0 {
				verr.Add("habits."+f.name, CodeOutOfRange, f.name+" cannot be negative")
			}
		}
	}

	return verr.OrNil()
}
