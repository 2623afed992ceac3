package service

import (
	"context"
	"fmt"
	"time"

	"clausevault/config"
	"clausevault/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the MongoDB-backed Store. Users live in the "users"
// collection, contracts in "contracts". All updates touch a single
// document, so per-document atomicity is all that is required.
type MongoStore struct {
	client    *mongo.Client
	users     *mongo.Collection
	contracts *mongo.Collection
}

// NewMongoStore connects to MongoDB and ensures the indexes the store
// relies on (unique email, owner+created_at for newest-first listing).
func NewMongoStore(ctx context.Context, cfg *config.MongoConfig) (*MongoStore, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:    client,
		users:     db.Collection("users"),
		contracts: db.Collection("contracts"),
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create email index: %w", err)
	}

	_, err = s.contracts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create owner index: %w", err)
	}

	return s, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) UpdateSettings(ctx context.Context, id, name, aiModel string) (*model.User, error) {
	update := bson.M{"$set": bson.M{
		"name":       name,
		"ai_model":   aiModel,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) CreateContract(ctx context.Context, contract *model.Contract) error {
	if contract.ID == "" {
		contract.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	contract.CreatedAt = now
	contract.UpdatedAt = now

	if _, err := s.contracts.InsertOne(ctx, contract); err != nil {
		return fmt.Errorf("failed to insert contract: %w", err)
	}
	return nil
}

func (s *MongoStore) ContractsByOwner(ctx context.Context, owner string) ([]*model.Contract, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.contracts.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer cursor.Close(ctx)

	var contracts []*model.Contract
	if err := cursor.All(ctx, &contracts); err != nil {
		return nil, fmt.Errorf("failed to decode contracts: %w", err)
	}
	return contracts, nil
}

func (s *MongoStore) ContractByOwner(ctx context.Context, id, owner string) (*model.Contract, error) {
	var contract model.Contract
	err := s.contracts.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&contract)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contract: %w", err)
	}
	return &contract, nil
}

func (s *MongoStore) DeleteByOwner(ctx context.Context, id, owner string) error {
	// Scoping the filter by owner makes foreign deletes match nothing;
	// a zero-delete result is deliberately not an error.
	if _, err := s.contracts.DeleteOne(ctx, bson.M{"_id": id, "owner": owner}); err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateInsights(ctx context.Context, id, insights string) error {
	update := bson.M{"$set": bson.M{
		"ai_insights": insights,
		"updated_at":  time.Now(),
	}}
	if _, err := s.contracts.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to update insights: %w", err)
	}
	return nil
}
