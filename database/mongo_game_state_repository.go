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

// MongoGameStateRepository persists the per-game processing state: current
// score/status/period/clock, the quarter watermark, and the last sync
// result shown to commissioners.
type MongoGameStateRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoGameStateRepository(db *MongoDB) *MongoGameStateRepository {
	collection := db.GetCollection("game_states")
	logger := logging.WithPrefix("mongo_game_state_repo")

	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "gameId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on game_states: %v", err)
	}

	return &MongoGameStateRepository{
		collection: collection,
		logger:     logger,
	}
}

// Get returns the state record for a game, nil when the game has never been
// synced.
func (r *MongoGameStateRepository) Get(ctx context.Context, gameID string) (*models.GameState, error) {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	var state models.GameState
	err := r.collection.FindOne(ctx, bson.M{"gameId": gameID}).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find game state %s: %w", gameID, err)
	}

	return &state, nil
}

// Upsert replaces the state record for a game
func (r *MongoGameStateRepository) Upsert(ctx context.Context, state *models.GameState) error {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	filter := bson.M{"gameId": state.GameID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, state, opts); err != nil {
		return fmt.Errorf("failed to upsert game state %s: %w", state.GameID, err)
	}

	r.logger.Debugf("Upserted game state %s status=%s score=%d-%d watermark=%d",
		state.GameID, state.Status, state.HomeScore, state.AwayScore, state.ScoredPeriod)
	return nil
}

// RecordSyncError stamps the last failed sync on the state record without
// touching scores, so the UI keeps showing the previous successful view.
func (r *MongoGameStateRepository) RecordSyncError(ctx context.Context, gameID, message string) error {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"lastError": message}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"gameId": gameID}, update); err != nil {
		return fmt.Errorf("failed to record sync error for game %s: %w", gameID, err)
	}
	return nil
}
