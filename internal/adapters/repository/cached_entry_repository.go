package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
)

var _ domain.DailyEntryRepository = (*CachedEntryRepository)(nil)

const entryCacheTTL = 30 * time.Minute

// cachedEntry carries the tracked-habit mask, which the public JSON shape hides.
type cachedEntry struct {
	domain.DailyEntry
	TrackedHabits domain.HabitMask `json:"trackedHabits"`
}

// CachedEntryRepository is a read-through cache for single-day lookups in
// front of the durable store. Redis failures degrade to the next repository.
type CachedEntryRepository struct {
	next   domain.DailyEntryRepository
	cache  *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewCachedEntryRepository(next domain.DailyEntryRepository, cache *redis.Client, logger logrus.FieldLogger) *CachedEntryRepository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CachedEntryRepository{
		next:   next,
		cache:  cache,
		ttl:    entryCacheTTL,
		logger: logger.WithField("component", "entry_cache"),
	}
}

func (r *CachedEntryRepository) cacheKey(userID string, date time.Time) string {
	return fmt.Sprintf("daily_entry:%s:%s", userID, domain.DayKey(date))
}

func (r *CachedEntryRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyEntry, error) {
	key := r.cacheKey(userID, date)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedEntry
		if err := json.Unmarshal(val, &cached); err == nil {
			entry := cached.DailyEntry
			entry.TrackedHabits = cached.TrackedHabits
			return &entry, nil
		}

		r.logger.WithField("key", key).Warn("corrupted cache entry, cleaning up key")
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.WithError(err).Warn("redis read failed")
	}

	entry, err := r.next.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	r.store(ctx, entry)
	return entry, nil
}

func (r *CachedEntryRepository) FindRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.DailyEntry, error) {
	return r.next.FindRange(ctx, userID, start, end)
}

func (r *CachedEntryRepository) Upsert(ctx context.Context, entry *domain.DailyEntry) (*domain.DailyEntry, error) {
	saved, err := r.next.Upsert(ctx, entry)
	if err != nil {
		r.invalidate(ctx, entry.UserID, entry.Date)
		return nil, err
	}

	r.store(ctx, saved)
	return saved, nil
}

func (r *CachedEntryRepository) store(ctx context.Context, entry *domain.DailyEntry) {
	data, err := json.Marshal(cachedEntry{DailyEntry: *entry, TrackedHabits: entry.TrackedHabits})
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, r.cacheKey(entry.UserID, entry.Date), data, r.ttl).Err(); err != nil {
		r.logger.WithError(err).Warn("redis set failed")
	}
}

func (r *CachedEntryRepository) invalidate(ctx context.Context, userID string, date time.Time) {
	if err := r.cache.Del(ctx, r.cacheKey(userID, date)).Err(); err != nil {
		r.logger.WithError(err).WithField("user", userID).Warn("failed to invalidate cache")
	}
}
