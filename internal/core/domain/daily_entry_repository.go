package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrEntryNotFound = errors.New("daily entry not found")
	ErrEntryConflict = errors.New("daily entry already exists for this date")
)

// ConflictError is returned by Upsert when the storage uniqueness guard on
// (user, date) rejects an insert because a concurrent writer got there first.
type ConflictError struct {
	UserID string
	Date   time.Time
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("daily entry conflict for user %s on %s: %v", e.UserID, DayKey(e.Date), e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

func (e *ConflictError) Is(target error) bool { return target == ErrEntryConflict }

type DailyEntryRepository interface {
	// FindByUserAndDate returns the entry stored for the exact (user, UTC-midnight date) pair.
	// It returns ErrEntryNotFound when there is none.
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*DailyEntry, error)

	// FindRange returns the user's entries with start <= date <= end, ascending by date.
	// Callers normalize start to the beginning and end to the last millisecond of their days.
	FindRange(ctx context.Context, userID string, start, end time.Time) ([]*DailyEntry, error)

	// Upsert updates mood, note, habits and streak of the existing (user, date) entry in place,
	// or inserts a new one. A uniqueness violation on insert is reported as *ConflictError.
	Upsert(ctx context.Context, entry *DailyEntry) (*DailyEntry, error)
}
