package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoMaxPoolSize            = 10
	mongoServerSelectionTimeout = 5 * time.Second
	mongoSocketTimeout          = 45 * time.Second
)

// OpenMongo configures a MongoDB client. The driver connects lazily, so an
// unreachable server is only reported by the first ping or operation.
func OpenMongo(uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb uri must not be empty")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(mongoMaxPoolSize).
		SetServerSelectionTimeout(mongoServerSelectionTimeout).
		SetSocketTimeout(mongoSocketTimeout)

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mongodb client: %w", err)
	}

	return client, nil
}
