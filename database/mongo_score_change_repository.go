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

// ErrSequenceConflict means a ledger insert collided with an existing
// (game, sequence) pair: a second writer got there first. Callers treat
// this as a fatal invariant violation for the game, never a retry.
var ErrSequenceConflict = fmt.Errorf("score change sequence already exists")

// MongoScoreChangeRepository is the append-only score-change ledger. The
// unique (gameId, sequence) index backs the gapless monotonic invariant:
// there is no update or single-delete path.
type MongoScoreChangeRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoScoreChangeRepository(db *MongoDB) *MongoScoreChangeRepository {
	collection := db.GetCollection("score_changes")
	logger := logging.WithPrefix("mongo_score_change_repo")

	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "gameId", Value: 1}, {Key: "sequence", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on score_changes: %v", err)
	}

	return &MongoScoreChangeRepository{
		collection: collection,
		logger:     logger,
	}
}

// Append inserts one ledger record. A duplicate (game, sequence) pair comes
// back as ErrSequenceConflict.
func (r *MongoScoreChangeRepository) Append(ctx context.Context, record *models.ScoreChangeRecord) error {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: game %s sequence %d", ErrSequenceConflict, record.GameID, record.Sequence)
		}
		return fmt.Errorf("failed to append score change for game %s: %w", record.GameID, err)
	}

	r.logger.Infof("Ledger append game=%s seq=%d score=%d-%d",
		record.GameID, record.Sequence, record.HomeScore, record.AwayScore)
	return nil
}

// Latest returns the most recent ledger entry for a game, nil when the
// ledger is empty.
func (r *MongoScoreChangeRepository) Latest(ctx context.Context, gameID string) (*models.ScoreChangeRecord, error) {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}})

	var record models.ScoreChangeRecord
	err := r.collection.FindOne(ctx, bson.M{"gameId": gameID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest score change for game %s: %w", gameID, err)
	}

	return &record, nil
}

// ListByGame returns the full ledger for a game in sequence order
func (r *MongoScoreChangeRepository) ListByGame(ctx context.Context, gameID string) ([]models.ScoreChangeRecord, error) {
	ctx, cancel := withTimeout(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"gameId": gameID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find score changes for game %s: %w", gameID, err)
	}
	defer cursor.Close(ctx)

	var records []models.ScoreChangeRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode score changes: %w", err)
	}

	return records, nil
}
