package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
)

var _ domain.DailyEntryRepository = (*MongoEntryRepository)(nil)

const dailyEntriesCollection = "daily_entries"

type MongoEntryRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoEntryRepository(db *mongo.Database) *MongoEntryRepository {
	return &MongoEntryRepository{
		collection: db.Collection(dailyEntriesCollection),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique (user, date) index that guards the
// one-entry-per-day invariant, plus the user index used by range queries.
func (r *MongoEntryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_date_unique"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("user"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create daily entry indexes: %w", err)
	}
	return nil
}

func (r *MongoEntryRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyEntry, error) {
	var entry domain.DailyEntry

	err := r.collection.FindOne(ctx, bson.M{"user": userID, "date": date.UTC()}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find daily entry: %w", err)
	}
	normalizeTimes(&entry)
	return &entry, nil
}

func (r *MongoEntryRepository) FindRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.DailyEntry, error) {
	filter := bson.M{
		"user": userID,
		"date": bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []*domain.DailyEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode daily entries: %w", err)
	}
	for _, e := range entries {
		normalizeTimes(e)
	}
	return entries, nil
}

func (r *MongoEntryRepository) Upsert(ctx context.Context, entry *domain.DailyEntry) (*domain.DailyEntry, error) {
	now := r.now().UTC()
	filter := bson.M{"user": entry.UserID, "date": entry.Date.UTC()}
	update := bson.M{"$set": bson.M{
		"mood":          entry.Mood,
		"note":          entry.Note,
		"habits":        entry.Habits,
		"trackedHabits": entry.TrackedHabits,
		"streakCount":   entry.StreakCount,
		"updatedAt":     now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.DailyEntry
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		normalizeTimes(&updated)
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update daily entry: %w", err)
	}

	doc := *entry
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Date = entry.Date.UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, &doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ConflictError{UserID: doc.UserID, Date: doc.Date, Err: err}
		}
		return nil, fmt.Errorf("failed to insert daily entry: %w", err)
	}

	// BSON datetimes keep millisecond precision; mirror what a read would return.
	doc.CreatedAt = doc.CreatedAt.Truncate(time.Millisecond)
	doc.UpdatedAt = doc.UpdatedAt.Truncate(time.Millisecond)
	return &doc, nil
}
