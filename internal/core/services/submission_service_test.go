package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/equilibrio-api/internal/adapters/repository"
	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
	"github.com/comitanigiacomo/equilibrio-api/internal/core/services"
)

type MockEntryRepo struct {
	mock.Mock
}

func (m *MockEntryRepo) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyEntry, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyEntry), args.Error(1)
}

func (m *MockEntryRepo) FindRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.DailyEntry, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailyEntry), args.Error(1)
}

func (m *MockEntryRepo) Upsert(ctx context.Context, entry *domain.DailyEntry) (*domain.DailyEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyEntry), args.Error(1)
}

var (
	monday  = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	sunday  = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	clockAt = func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) }
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newService(repo domain.DailyEntryRepository) *services.SubmissionService {
	engine := domain.NewStreakEngine(domain.DefaultGoalThresholds(), domain.MissingAsZero)
	return services.NewSubmissionService(repo, engine, quietLogger(), clockAt)
}

func submission(t *testing.T, body string) domain.Submission {
	t.Helper()
	var sub domain.Submission
	require.NoError(t, json.Unmarshal([]byte(body), &sub))
	return sub
}

func validationCodes(t *testing.T, err error) []string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T: %v", err, err)
	codes := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		codes = append(codes, fe.Code)
	}
	return codes
}

const qualifying = `"habits": {"waterCups": 8, "exerciseMinutes": 30, "sleepMinutes": 420}`

func TestSubmissionService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject invalid input without touching storage", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)

		_, err := svc.Submit(ctx, submission(t, `{"mood": "ecstatic", "note": 5}`))

		assert.Equal(t, []string{domain.CodeRequired, domain.CodeInvalidValue, domain.CodeInvalidType}, validationCodes(t, err))
		repo.AssertNotCalled(t, "FindByUserAndDate", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should compute streak from yesterday and persist", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)

		tuesday := monday.AddDate(0, 0, 1)
		yesterday := &domain.DailyEntry{
			UserID: "u1", Date: monday, StreakCount: 4,
			Habits:        domain.Habits{WaterCups: 8, ExerciseMinutes: 30, SleepMinutes: 420},
			TrackedHabits: domain.TrackWater | domain.TrackExercise | domain.TrackSleep,
		}

		repo.On("FindByUserAndDate", ctx, "u1", tuesday).Return(nil, domain.ErrEntryNotFound)
		repo.On("FindByUserAndDate", ctx, "u1", monday).Return(yesterday, nil)
		repo.On("Upsert", ctx, mock.MatchedBy(func(e *domain.DailyEntry) bool {
			return e.UserID == "u1" && e.Date.Equal(tuesday) && e.StreakCount == 5 && e.ID == ""
		})).Return(&domain.DailyEntry{ID: "e-2", UserID: "u1", Date: tuesday, StreakCount: 5}, nil)

		saved, err := svc.Submit(ctx, submission(t, `{"user": "u1", "date": "2024-03-05", "mood": "happy", `+qualifying+`}`))
		require.NoError(t, err)

		assert.Equal(t, "e-2", saved.ID)
		assert.Equal(t, 5, saved.StreakCount)
		repo.AssertExpectations(t)
	})

	t.Run("Should ignore a client supplied streakCount", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)

		repo.On("FindByUserAndDate", ctx, "u1", mock.Anything).Return(nil, domain.ErrEntryNotFound)
		repo.On("Upsert", ctx, mock.MatchedBy(func(e *domain.DailyEntry) bool {
			return e.StreakCount == 0
		})).Return(&domain.DailyEntry{ID: "e-1"}, nil)

		_, err := svc.Submit(ctx, submission(t, `{"user": "u1", "date": "2024-03-04", "mood": "sad", "streakCount": 42}`))
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Should translate a storage conflict into a validation error", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)

		repo.On("FindByUserAndDate", ctx, "u1", mock.Anything).Return(nil, domain.ErrEntryNotFound)
		repo.On("Upsert", ctx, mock.Anything).Return(nil, &domain.ConflictError{UserID: "u1", Date: monday, Err: errors.New("E11000")})

		_, err := svc.Submit(ctx, submission(t, `{"user": "u1", "date": "2024-03-04", "mood": "happy"}`))

		assert.Equal(t, []string{domain.CodeConflict}, validationCodes(t, err))
		assert.NotErrorIs(t, err, domain.ErrEntryConflict, "the conflict must not leak past the service")

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"an entry for this user and date already exists; use update"}, verr.Messages())
	})

	t.Run("Should propagate storage faults unmodified", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)
		fault := errors.New("connection refused")

		repo.On("FindByUserAndDate", ctx, "u1", mock.Anything).Return(nil, domain.ErrEntryNotFound)
		repo.On("Upsert", ctx, mock.Anything).Return(nil, fault)

		_, err := svc.Submit(ctx, submission(t, `{"user": "u1", "date": "2024-03-04", "mood": "happy"}`))

		assert.Same(t, fault, err)
	})

	t.Run("Should stop when the existing lookup fails", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)
		fault := errors.New("timeout")

		repo.On("FindByUserAndDate", ctx, "u1", monday).Return(nil, fault)

		_, err := svc.Submit(ctx, submission(t, `{"user": "u1", "date": "2024-03-04", "mood": "happy"}`))

		assert.Same(t, fault, err)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should default the date to today in UTC", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)
		today := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

		repo.On("FindByUserAndDate", ctx, "u1", mock.Anything).Return(nil, domain.ErrEntryNotFound)
		repo.On("Upsert", ctx, mock.MatchedBy(func(e *domain.DailyEntry) bool {
			return e.Date.Equal(today)
		})).Return(&domain.DailyEntry{ID: "e-1", Date: today}, nil)

		_, err := svc.Submit(ctx, submission(t, `{"user": "u1", "mood": "neutral"}`))
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestSubmissionService_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("Should require user and both dates", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)

		_, err := svc.Query(ctx, services.QueryInput{})

		assert.Equal(t, []string{domain.CodeRequired, domain.CodeRequired, domain.CodeRequired}, validationCodes(t, err))
		repo.AssertNotCalled(t, "FindRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject malformed and inverted ranges", func(t *testing.T) {
		svc := newService(new(MockEntryRepo))

		_, err := svc.Query(ctx, services.QueryInput{UserID: "u1", StartDate: "yesterday", EndDate: "2024-03-06"})
		assert.Equal(t, []string{domain.CodeInvalidFormat}, validationCodes(t, err))

		_, err = svc.Query(ctx, services.QueryInput{UserID: "u1", StartDate: "2024-03-07", EndDate: "2024-03-06"})
		assert.Equal(t, []string{domain.CodeOutOfRange}, validationCodes(t, err))
	})

	t.Run("Should widen the range to whole days", func(t *testing.T) {
		repo := new(MockEntryRepo)
		svc := newService(repo)

		start := monday
		end := time.Date(2024, 3, 6, 23, 59, 59, int(999*time.Millisecond), time.UTC)
		repo.On("FindRange", ctx, "u1", start, end).Return([]*domain.DailyEntry{}, nil)

		entries, err := svc.Query(ctx, services.QueryInput{UserID: "u1", StartDate: "2024-03-04T15:00:00Z", EndDate: "2024-03-06"})
		require.NoError(t, err)
		assert.Empty(t, entries)
		repo.AssertExpectations(t)
	})
}

func TestSubmissionService_GetByDate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEntryRepo)
	svc := newService(repo)

	repo.On("FindByUserAndDate", ctx, "u1", monday).Return(&domain.DailyEntry{ID: "e-1"}, nil)
	repo.On("FindByUserAndDate", ctx, "u1", sunday).Return(nil, domain.ErrEntryNotFound)

	entry, err := svc.GetByDate(ctx, "u1", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "e-1", entry.ID)

	_, err = svc.GetByDate(ctx, "u1", "2024-03-10")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	_, err = svc.GetByDate(ctx, "", "nope")
	assert.Equal(t, []string{domain.CodeRequired, domain.CodeInvalidFormat}, validationCodes(t, err))
}

// The week of 2024-03-04 walked end to end against the in-memory store.
func TestSubmissionService_Scenarios(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryEntryRepository()
	svc := newService(repo)

	submit := func(body string) *domain.DailyEntry {
		t.Helper()
		saved, err := svc.Submit(ctx, submission(t, body))
		require.NoError(t, err)
		return saved
	}

	a := submit(`{"user": "u1", "date": "2024-03-04", "mood": "happy", ` + qualifying + `}`)
	assert.Equal(t, 1, a.StreakCount, "first qualifying day")

	b := submit(`{"user": "u1", "date": "2024-03-05", "mood": "happy", ` + qualifying + `}`)
	assert.Equal(t, 2, b.StreakCount, "consecutive qualifying day")

	c := submit(`{"user": "u1", "date": "2024-03-06", "mood": "happy", "habits": {"waterCups": 8, "exerciseMinutes": 10, "sleepMinutes": 420}}`)
	assert.Equal(t, 0, c.StreakCount, "goal missed")

	d := submit(`{"user": "u1", "date": "2024-03-04", "mood": "sad", ` + qualifying + `}`)
	assert.Equal(t, a.ID, d.ID, "resubmission updates in place")
	assert.Equal(t, domain.MoodSad, d.Mood)
	assert.Equal(t, 1, d.StreakCount)
	assert.Equal(t, 3, repo.Len())

	entries, err := svc.Query(ctx, services.QueryInput{UserID: "u1", StartDate: "2024-03-04", EndDate: "2024-03-06"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, want := range []string{"2024-03-04", "2024-03-05", "2024-03-06"} {
		assert.Equal(t, want, domain.DayKey(entries[i].Date))
	}
	assert.Equal(t, domain.MoodSad, entries[0].Mood)

	sun := submit(`{"user": "u1", "date": "2024-03-10", "mood": "very_happy", ` + qualifying + `}`)
	assert.Equal(t, 1, sun.StreakCount, "Sunday starts a new week")
}

func TestSubmissionService_UntrackedPolicy(t *testing.T) {
	ctx := context.Background()
	engine := domain.NewStreakEngine(domain.DefaultGoalThresholds(), domain.MissingAsUntracked)
	svc := services.NewSubmissionService(repository.NewInMemoryEntryRepository(), engine, quietLogger(), clockAt)

	first, err := svc.Submit(ctx, submission(t, `{"user": "u2", "date": "2024-03-04", "mood": "happy", "habits": {"waterCups": 9}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, first.StreakCount)

	second, err := svc.Submit(ctx, submission(t, `{"user": "u2", "date": "2024-03-05", "mood": "happy", "habits": {"sleepMinutes": 480}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, second.StreakCount)
}
