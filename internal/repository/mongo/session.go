package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcg-platform/componentgen/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "sessions"

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	coll *mongo.Collection
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionCollection)}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return nil
}

func (r *SessionRepository) List(ctx context.Context) ([]domain.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []domain.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var s domain.Session
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.SessionUpdate) (*domain.Session, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.ChatMessages != nil {
		set["chatMessages"] = *update.ChatMessages
	}
	if update.CurrentJSX != nil {
		set["currentJsx"] = *update.CurrentJSX
	}
	if update.CurrentCSS != nil {
		set["currentCss"] = *update.CurrentCSS
	}
	if update.GeneratedComponents != nil {
		set["generatedComponents"] = *update.GeneratedComponents
	}
	if update.LastPrompt != nil {
		set["lastPrompt"] = *update.LastPrompt
	}
	if update.LastGeneratedJSX != nil {
		set["lastGeneratedJsx"] = *update.LastGeneratedJSX
	}
	if update.LastGeneratedCSS != nil {
		set["lastGeneratedCss"] = *update.LastGeneratedCSS
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var s domain.Session
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var s domain.Session
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}
	return &s, nil
}
