package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store-level sentinel errors. Callers branch on these with errors.Is.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

const connectTimeout = 10 * time.Second

// NewDB connects to MongoDB, pings it, and returns the database named in
// the URI path (or "flashid" when the URI carries no database name).
func NewDB(ctx context.Context, uri string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(databaseName(uri)), nil
}

// Disconnect closes the underlying client of a database handle.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return db.Client().Disconnect(ctx)
}

func databaseName(uri string) string {
	trimmed := strings.SplitN(uri, "?", 2)[0]
	parts := strings.Split(trimmed, "/")
	if len(parts) > 3 {
		if name := parts[len(parts)-1]; name != "" {
			return name
		}
	}
	return "flashid"
}
