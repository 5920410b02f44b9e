package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout = 10 * time.Second
	retryDelay     = 5 * time.Second
	maxAttempts    = 5
)

// Mongo owns the client lifecycle: opened at startup, closed at shutdown.
// Request-time failures surface to callers; only startup retries.
type Mongo struct {
	client   *mongo.Client
	Database *mongo.Database
}

// Connect dials the store and verifies it with a ping, retrying with a fixed
// delay on startup failure.
func Connect(uri, dbName string) (*Mongo, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := connectOnce(uri)
		if err == nil {
			log.Printf("Connected to MongoDB: %s", dbName)
			return &Mongo{client: client, Database: client.Database(dbName)}, nil
		}
		lastErr = err
		log.Printf("MongoDB connection failed (attempt %d/%d): %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("connecting to MongoDB: %w", lastErr)
}

func connectOnce(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the services rely on. The unique email
// index makes concurrent duplicate signups lose at the insert instead of
// both passing the existence check.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensuring users.email index: %w", err)
	}
	return nil
}

// Collection returns a handle in the configured database.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
