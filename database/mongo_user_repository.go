package database

import (
	"context"
	"fmt"
	"time"

	"squares-app-go/logging"
	"squares-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository persists commissioner accounts
type MongoUserRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoUserRepository(db *MongoDB) *MongoUserRepository {
	collection := db.GetCollection("users")
	logger := logging.WithPrefix("mongo_user_repo")

	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create email index on users: %v", err)
	}

	return &MongoUserRepository{
		collection: collection,
		logger:     logger,
	}
}

// GetUserByEmail finds a user by email address
func (r *MongoUserRepository) GetUserByEmail(email string) (*models.User, error) {
	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user not found: %s", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// GetUserByID finds a user by numeric id
func (r *MongoUserRepository) GetUserByID(id int) (*models.User, error) {
	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user not found: %d", id)
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	return &user, nil
}

// CreateUser stores a new user
func (r *MongoUserRepository) CreateUser(user *models.User) error {
	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	r.logger.Infof("Created user %s (%s)", user.Name, user.Email)
	return nil
}

// UpdateUser replaces an existing user record
func (r *MongoUserRepository) UpdateUser(user *models.User) error {
	ctx, cancel := withTimeout(context.Background(), ShortTimeout)
	defer cancel()

	user.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user not found: %d", user.ID)
	}

	return nil
}
