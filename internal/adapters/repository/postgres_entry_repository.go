package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
)

var _ domain.DailyEntryRepository = (*PostgresEntryRepository)(nil)

const uniqueViolation = "23505"

const entryColumns = `id, user_id, entry_date, mood, note,
		water_cups, exercise_minutes, sleep_minutes, weight,
		tracked_habits, streak_count, created_at, updated_at`

const schema = `
CREATE TABLE IF NOT EXISTS daily_entries (
	id               UUID PRIMARY KEY,
	user_id          TEXT NOT NULL,
	entry_date       TIMESTAMPTZ NOT NULL,
	mood             TEXT NOT NULL,
	note             TEXT NOT NULL DEFAULT '',
	water_cups       DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (water_cups >= 0),
	exercise_minutes DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (exercise_minutes >= 0),
	sleep_minutes    DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (sleep_minutes >= 0),
	weight           DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (weight >= 0),
	tracked_habits   SMALLINT NOT NULL DEFAULT 0,
	streak_count     INTEGER NOT NULL DEFAULT 0 CHECK (streak_count >= 0),
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	CONSTRAINT daily_entries_user_date_key UNIQUE (user_id, entry_date)
);
CREATE INDEX IF NOT EXISTS idx_daily_entries_user_id ON daily_entries (user_id);`

type PostgresEntryRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPostgresEntryRepository(db *sqlx.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db, now: time.Now}
}

// EnsureSchema creates the daily_entries table, its (user_id, entry_date)
// uniqueness constraint and the user_id index when missing.
func (r *PostgresEntryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure daily_entries schema: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyEntry, error) {
	var entry domain.DailyEntry
	query := `SELECT ` + entryColumns + ` FROM daily_entries WHERE user_id = $1 AND entry_date = $2`

	err := r.db.GetContext(ctx, &entry, query, userID, date.UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find daily entry: %w", err)
	}
	normalizeTimes(&entry)
	return &entry, nil
}

func (r *PostgresEntryRepository) FindRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.DailyEntry, error) {
	entries := []*domain.DailyEntry{}

	query := `
		SELECT ` + entryColumns + ` FROM daily_entries
		WHERE user_id = $1
		  AND entry_date >= $2
		  AND entry_date <= $3
		ORDER BY entry_date ASC`

	err := r.db.SelectContext(ctx, &entries, query, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list daily entries: %w", err)
	}
	for _, e := range entries {
		normalizeTimes(e)
	}
	return entries, nil
}

// Upsert updates the (user_id, entry_date) row in place and falls back to an
// insert when nothing matched. The UNIQUE constraint decides concurrent inserts.
func (r *PostgresEntryRepository) Upsert(ctx context.Context, entry *domain.DailyEntry) (*domain.DailyEntry, error) {
	now := r.now().UTC()
	row := *entry
	row.Date = entry.Date.UTC()
	row.UpdatedAt = now

	updated, err := r.namedGet(ctx, `
		UPDATE daily_entries
		SET mood = :mood,
		    note = :note,
		    water_cups = :water_cups,
		    exercise_minutes = :exercise_minutes,
		    sleep_minutes = :sleep_minutes,
		    weight = :weight,
		    tracked_habits = :tracked_habits,
		    streak_count = :streak_count,
		    updated_at = :updated_at
		WHERE user_id = :user_id
		  AND entry_date = :entry_date
		RETURNING `+entryColumns, &row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update daily entry: %w", err)
	}

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.CreatedAt = now

	inserted, err := r.namedGet(ctx, `
		INSERT INTO daily_entries (
			id, user_id, entry_date, mood, note,
			water_cups, exercise_minutes, sleep_minutes, weight,
			tracked_habits, streak_count, created_at, updated_at
		) VALUES (
			:id, :user_id, :entry_date, :mood, :note,
			:water_cups, :exercise_minutes, :sleep_minutes, :weight,
			:tracked_habits, :streak_count, :created_at, :updated_at
		)
		RETURNING `+entryColumns, &row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ConflictError{UserID: row.UserID, Date: row.Date, Err: err}
		}
		return nil, fmt.Errorf("failed to insert daily entry: %w", err)
	}
	return inserted, nil
}

func (r *PostgresEntryRepository) namedGet(ctx context.Context, query string, arg *domain.DailyEntry) (*domain.DailyEntry, error) {
	bound, args, err := r.db.BindNamed(query, arg)
	if err != nil {
		return nil, err
	}

	var out domain.DailyEntry
	if err := r.db.QueryRowxContext(ctx, bound, args...).StructScan(&out); err != nil {
		return nil, err
	}
	normalizeTimes(&out)
	return &out, nil
}

// isUniqueViolation recognises SQLSTATE 23505 from both pgx and lib/pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

func normalizeTimes(e *domain.DailyEntry) {
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
}
