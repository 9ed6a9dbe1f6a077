package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository implements domain.SessionRepository on one collection
type SessionRepository struct {
	db   *DB
	coll *mongo.Collection
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB, collection string) *SessionRepository {
	return &SessionRepository{db: db, coll: db.Database.Collection(collection)}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	doc := *session
	if doc.Interactions == nil {
		doc.Interactions = []domain.Interaction{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.coll.FindOne(ctx, bson.M{"session_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// AppendInteraction pushes the interaction and bumps updated_at in one
// update so concurrent readers never see a half-written session
func (r *SessionRepository) AppendInteraction(ctx context.Context, sessionID string, interaction *domain.Interaction, title string) error {
	set := bson.M{"updated_at": interaction.CreatedAt}
	if title != "" {
		set["title"] = title
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{
			"$push": bson.M{"interactions": interaction},
			"$set":  set,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append interaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"session_id": id}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"user_id": userID},
			bson.M{"group.members": userID},
		},
		"created_at": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"interactions": 0})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cur.Close(ctx)

	sessions := []domain.Session{}
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) AddMember(ctx context.Context, sessionID, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "group": bson.M{"$exists": true}},
		bson.M{"$addToSet": bson.M{"group.members": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
