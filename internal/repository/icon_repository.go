package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flashid/volunteer-bot/internal/model"
)

const iconsCollection = "icon_names"

// IconRepository owns the icon_names collection that backs the shared
// security images. The selection policy itself lives in the service
// layer; this repository only exposes the primitive queries it needs.
type IconRepository struct {
	coll *mongo.Collection
}

func NewIconRepository(db *mongo.Database) *IconRepository {
	return &IconRepository{coll: db.Collection(iconsCollection)}
}

// OldestAvailable returns the available icon with the smallest
// updated_at, or ErrNotFound when every icon is in use.
func (r *IconRepository) OldestAvailable(ctx context.Context) (*model.SecurityIcon, error) {
	return r.findOldest(ctx, bson.M{"available": true})
}

// Oldest returns the icon with the smallest updated_at regardless of
// availability, or ErrNotFound when the collection is empty.
func (r *IconRepository) Oldest(ctx context.Context) (*model.SecurityIcon, error) {
	return r.findOldest(ctx, bson.M{})
}

// MarkUsed flips an icon to unavailable and refreshes its timestamp.
func (r *IconRepository) MarkUsed(ctx context.Context, value string) error {
	return r.update(ctx, value, bson.M{
		"available":  false,
		"updated_at": time.Now().Unix(),
	})
}

// Touch refreshes an icon's timestamp without changing availability.
func (r *IconRepository) Touch(ctx context.Context, value string) error {
	return r.update(ctx, value, bson.M{"updated_at": time.Now().Unix()})
}

// ResetAllAvailable returns every icon to the available pool. Timestamps
// are left alone so least-recently-used ordering survives the reset.
func (r *IconRepository) ResetAllAvailable(ctx context.Context) (int64, error) {
	result, err := r.coll.UpdateMany(ctx, bson.M{"available": false}, bson.M{
		"$set": bson.M{"available": true},
	})
	if err != nil {
		return 0, fmt.Errorf("reset icons: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *IconRepository) findOldest(ctx context.Context, filter bson.M) (*model.SecurityIcon, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: 1}})
	var icon model.SecurityIcon
	err := r.coll.FindOne(ctx, filter, opts).Decode(&icon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find icon: %w", err)
	}
	return &icon, nil
}

func (r *IconRepository) update(ctx context.Context, value string, fields bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": value}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update icon: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
