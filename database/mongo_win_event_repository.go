package database

import (
	"context"
	"fmt"

	"squares-app-go/logging"
	"squares-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWinEventRepository persists win events. The unique index on the
// dedupe key is what makes recording idempotent: a conflicting insert is a
// successful no-op, not an error, so duplicate polls and concurrent pollers
// need no locking.
type MongoWinEventRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoWinEventRepository(db *MongoDB) *MongoWinEventRepository {
	collection := db.GetCollection("win_events")
	logger := logging.WithPrefix("mongo_win_event_repo")

	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "dedupeKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create dedupe index on win_events: %v", err)
	}

	return &MongoWinEventRepository{
		collection: collection,
		logger:     logger,
	}
}

// InsertIfAbsent stores a win event unless one already exists for its dedupe
// key. Returns whether the event was actually inserted.
func (r *MongoWinEventRepository) InsertIfAbsent(ctx context.Context, event *models.WinEvent) (bool, error) {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Debugf("Win event %s already recorded, skipping", event.DedupeKey)
			return false, nil
		}
		return false, fmt.Errorf("failed to insert win event %s: %w", event.DedupeKey, err)
	}

	r.logger.Infof("Recorded win event %s (cell=%v participant=%q)",
		event.DedupeKey, event.Cell, event.ParticipantLabel)
	return true, nil
}

// GetByGame returns all recorded win events for a game
func (r *MongoWinEventRepository) GetByGame(ctx context.Context, gameID string) ([]models.WinEvent, error) {
	return r.find(ctx, bson.M{"gameId": gameID})
}

// GetByPool returns all recorded win events across a pool's games
func (r *MongoWinEventRepository) GetByPool(ctx context.Context, poolID string) ([]models.WinEvent, error) {
	return r.find(ctx, bson.M{"poolId": poolID})
}

func (r *MongoWinEventRepository) find(ctx context.Context, filter bson.M) ([]models.WinEvent, error) {
	ctx, cancel := withTimeout(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find win events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []models.WinEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode win events: %w", err)
	}

	return events, nil
}

// DeleteByGame removes every win event for one game. Only the recompute
// operation calls this; individual events are never deleted.
func (r *MongoWinEventRepository) DeleteByGame(ctx context.Context, gameID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, LongTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"gameId": gameID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete win events for game %s: %w", gameID, err)
	}

	r.logger.Infof("Deleted %d win events for game %s", result.DeletedCount, gameID)
	return result.DeletedCount, nil
}
