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

// MongoPoolRepository persists pool scoring configurations and grids
type MongoPoolRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoPoolRepository(db *MongoDB) *MongoPoolRepository {
	return &MongoPoolRepository{
		collection: db.GetCollection("pools"),
		logger:     logging.WithPrefix("mongo_pool_repo"),
	}
}

// GetByID returns a pool by its id
func (r *MongoPoolRepository) GetByID(ctx context.Context, poolID string) (*models.Pool, error) {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	var pool models.Pool
	err := r.collection.FindOne(ctx, bson.M{"_id": poolID}).Decode(&pool)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pool %s: %w", poolID, err)
	}

	return &pool, nil
}

// FindByGameID returns the pool a game belongs to, nil when no pool tracks
// the game. Each game is owned by a single pool.
func (r *MongoPoolRepository) FindByGameID(ctx context.Context, gameID string) (*models.Pool, error) {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	var pool models.Pool
	err := r.collection.FindOne(ctx, bson.M{"gameIds": gameID}).Decode(&pool)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pool for game %s: %w", gameID, err)
	}

	return &pool, nil
}

// Upsert stores a pool
func (r *MongoPoolRepository) Upsert(ctx context.Context, pool *models.Pool) error {
	ctx, cancel := withTimeout(ctx, ShortTimeout)
	defer cancel()

	filter := bson.M{"_id": pool.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, pool, opts); err != nil {
		return fmt.Errorf("failed to upsert pool %s: %w", pool.ID, err)
	}

	r.logger.Debugf("Upserted pool %s mode=%s locked=%t", pool.ID, pool.Mode, pool.Grid.IsLocked())
	return nil
}
