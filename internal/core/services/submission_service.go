package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
)

const conflictMessage = "an entry for this user and date already exists; use update"

type SubmissionService struct {
	repo       domain.DailyEntryRepository
	engine     domain.StreakEngine
	normalizer *domain.Normalizer
	logger     logrus.FieldLogger
}

func NewSubmissionService(repo domain.DailyEntryRepository, engine domain.StreakEngine, logger logrus.FieldLogger, clock func() time.Time) *SubmissionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SubmissionService{
		repo:       repo,
		engine:     engine,
		normalizer: domain.NewNormalizer(clock),
		logger:     logger.WithField("component", "submission_service"),
	}
}

// Submit normalizes and validates a submission, computes its streak from the
// previous day's entry and stores it. Validation failures never touch storage.
func (s *SubmissionService) Submit(ctx context.Context, sub domain.Submission) (*domain.DailyEntry, error) {
	canonical := s.normalizer.Normalize(sub)
	if err := domain.Validate(sub, &canonical); err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"user": canonical.UserID,
		"date": domain.DayKey(canonical.Date),
	})

	existing, err := s.repo.FindByUserAndDate(ctx, canonical.UserID, canonical.Date)
	switch {
	case err == nil && existing != nil:
		log.Debug("updating existing daily entry")
	case err == nil, errors.Is(err, domain.ErrEntryNotFound):
		log.Debug("creating daily entry")
	default:
		log.WithError(err).Error("failed to look up daily entry")
		return nil, err
	}

	yesterday, err := s.repo.FindByUserAndDate(ctx, canonical.UserID, canonical.Date.AddDate(0, 0, -1))
	if err != nil {
		if !errors.Is(err, domain.ErrEntryNotFound) {
			log.WithError(err).Error("failed to look up previous day")
			return nil, err
		}
		yesterday = nil
	}

	canonical.StreakCount = s.engine.Compute(canonical.Habits, canonical.TrackedHabits, canonical.Date, yesterday)

	saved, err := s.repo.Upsert(ctx, canonical.ToEntry())
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			log.Warn("concurrent submission lost the insert race")
			return nil, domain.NewValidationError(domain.FieldError{
				Field:   "date",
				Code:    domain.CodeConflict,
				Message: conflictMessage,
			})
		}
		log.WithError(err).Error("failed to save daily entry")
		return nil, err
	}

	log.WithField("streak", saved.StreakCount).Info("daily entry saved")
	return saved, nil
}

type QueryInput struct {
	UserID    string
	StartDate string
	EndDate   string
}

// Query lists a user's entries between two calendar days, both inclusive.
func (s *SubmissionService) Query(ctx context.Context, input QueryInput) ([]*domain.DailyEntry, error) {
	verr := domain.NewValidationError()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		verr.Add("user", domain.CodeRequired, "user is required")
	}

	start, startOK := parseQueryDate(verr, "startDate", input.StartDate)
	end, endOK := parseQueryDate(verr, "endDate", input.EndDate)
	if startOK && endOK && start.After(end) {
		verr.Add("startDate", domain.CodeOutOfRange, "startDate must not be after endDate")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	entries, err := s.repo.FindRange(ctx, userID, domain.StartOfDay(start), domain.EndOfDay(end))
	if err != nil {
		s.logger.WithError(err).WithField("user", userID).Error("failed to query daily entries")
		return nil, err
	}
	return entries, nil
}

// GetByDate returns the entry a user stored for one calendar day.
func (s *SubmissionService) GetByDate(ctx context.Context, userID, date string) (*domain.DailyEntry, error) {
	verr := domain.NewValidationError()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		verr.Add("user", domain.CodeRequired, "user is required")
	}
	day, _ := parseQueryDate(verr, "date", date)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	entry, err := s.repo.FindByUserAndDate(ctx, userID, day)
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		s.logger.WithError(err).WithField("user", userID).Error("failed to load daily entry")
	}
	return entry, err
}

func parseQueryDate(verr *domain.ValidationError, field, value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		verr.Add(field, domain.CodeRequired, field+" is required")
		return time.Time{}, false
	}
	day, ok := domain.ParseDay(value)
	if !ok {
		verr.Add(field, domain.CodeInvalidFormat, field+" must be a valid date")
		return time.Time{}, false
	}
	return day, true
}
