package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/flashid/volunteer-bot/internal/model"
)

const usersCollection = "users"

// VolunteerRepository owns all reads and writes on the users collection.
// Documents are keyed by username (_id), so Create is an atomic
// insert-if-absent: a duplicate start command loses the insert race and
// surfaces as ErrAlreadyExists instead of clobbering the first record.
type VolunteerRepository struct {
	coll *mongo.Collection
}

func NewVolunteerRepository(db *mongo.Database) *VolunteerRepository {
	return &VolunteerRepository{coll: db.Collection(usersCollection)}
}

func (r *VolunteerRepository) GetByUsername(ctx context.Context, username string) (*model.Volunteer, error) {
	var volunteer model.Volunteer
	err := r.coll.FindOne(ctx, bson.M{"_id": username}).Decode(&volunteer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find volunteer: %w", err)
	}
	return &volunteer, nil
}

func (r *VolunteerRepository) Create(ctx context.Context, username, firstName string, chatID int64) (*model.Volunteer, error) {
	now := time.Now().Unix()
	volunteer := model.Volunteer{
		Username:        username,
		FirstName:       firstName,
		ChatID:          chatID,
		Available:       false,
		OnboardingState: model.StateStarted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := r.coll.InsertOne(ctx, volunteer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create volunteer: %w", err)
	}
	return &volunteer, nil
}

// UpdateGender records the gender preference and advances onboarding.
func (r *VolunteerRepository) UpdateGender(ctx context.Context, username string, gender model.Gender) error {
	return r.update(ctx, username, bson.M{
		"gender":           gender,
		"onboarding_state": model.StateHaveGender,
	})
}

// UpdateLanguageAndActivate records the language preference, completes
// onboarding, and marks the volunteer available in a single update.
func (r *VolunteerRepository) UpdateLanguageAndActivate(ctx context.Context, username string, language model.Language) error {
	return r.update(ctx, username, bson.M{
		"language":         language,
		"onboarding_state": model.StateCompleted,
		"available":        true,
	})
}

// SetAvailable flips availability without touching onboarding fields.
func (r *VolunteerRepository) SetAvailable(ctx context.Context, username string, available bool) error {
	return r.update(ctx, username, bson.M{"available": available})
}

// ListAvailableChatIDs streams every available volunteer's chat id.
func (r *VolunteerRepository) ListAvailableChatIDs(ctx context.Context) ([]int64, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"available": true})
	if err != nil {
		return nil, fmt.Errorf("list available volunteers: %w", err)
	}
	defer cursor.Close(ctx)

	var chatIDs []int64
	for cursor.Next(ctx) {
		var volunteer model.Volunteer
		if err := cursor.Decode(&volunteer); err != nil {
			return nil, fmt.Errorf("decode volunteer: %w", err)
		}
		chatIDs = append(chatIDs, volunteer.ChatID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("stream volunteers: %w", err)
	}
	return chatIDs, nil
}

// update applies a partial field update and refreshes updated_at.
func (r *VolunteerRepository) update(ctx context.Context, username string, fields bson.M) error {
	fields["updated_at"] = time.Now().Unix()
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": username}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update volunteer: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
