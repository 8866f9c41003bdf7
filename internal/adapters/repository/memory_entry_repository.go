package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
)

var _ domain.DailyEntryRepository = (*InMemoryEntryRepository)(nil)

type entryKey struct {
	userID string
	day    string
}

// InMemoryEntryRepository keeps entries in a map keyed by (user, day). The
// mutex makes Upsert atomic, so the uniqueness invariant cannot race here.
type InMemoryEntryRepository struct {
	store map[entryKey]*domain.DailyEntry

	mu  sync.RWMutex
	now func() time.Time
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[entryKey]*domain.DailyEntry),
		now:   time.Now,
	}
}

func keyOf(userID string, date time.Time) entryKey {
	return entryKey{userID: userID, day: domain.DayKey(date)}
}

func (r *InMemoryEntryRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[keyOf(userID, date)]
	if !ok || !entry.Date.Equal(date) {
		return nil, domain.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *InMemoryEntryRepository) FindRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.DailyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.DailyEntry{}
	for k, e := range r.store {
		if k.userID != userID {
			continue
		}
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		copied := *e
		entries = append(entries, &copied)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	return entries, nil
}

func (r *InMemoryEntryRepository) Upsert(ctx context.Context, entry *domain.DailyEntry) (*domain.DailyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	key := keyOf(entry.UserID, entry.Date)

	if existing, ok := r.store[key]; ok {
		existing.Mood = entry.Mood
		existing.Note = entry.Note
		existing.Habits = entry.Habits
		existing.TrackedHabits = entry.TrackedHabits
		existing.StreakCount = entry.StreakCount
		existing.UpdatedAt = now

		copied := *existing
		return &copied, nil
	}

	stored := *entry
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.store[key] = &stored

	copied := stored
	return &copied, nil
}

// Len reports how many entries are stored.
func (r *InMemoryEntryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}
