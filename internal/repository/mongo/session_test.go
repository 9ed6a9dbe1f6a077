package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Integration(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, config.MongoConfig{URI: uri, Database: "omniai_test", ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer db.Close(context.Background())

	coll := "sessions_" + uuid.NewString()[:8]
	require.NoError(t, db.EnsureIndexes(ctx, coll))
	defer db.Database.Collection(coll).Drop(context.Background())

	repo := NewSessionRepository(db, coll)
	now := time.Now().UTC().Truncate(time.Millisecond)

	s := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    "user-1",
		Title:     "New Chat",
		Mode:      domain.ModePersistent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, s))

	for i, id := range []string{"a", "b", "c"} {
		title := ""
		if i == 0 {
			title = "First question"
		}
		require.NoError(t, repo.AppendInteraction(ctx, s.ID, &domain.Interaction{
			ID:        id,
			ToolID:    "chat",
			Output:    domain.Output{Shape: domain.ShapeText, Text: id},
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}, title))
	}

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "First question", got.Title)
	require.Len(t, got.Interactions, 3)
	assert.Equal(t, "c", got.Interactions[2].ID)

	list, err := repo.ListByUser(ctx, "user-1", now.Add(-time.Minute), now.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Interactions)

	err = repo.AppendInteraction(ctx, "missing", &domain.Interaction{ID: "x"}, "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, repo.Delete(ctx, s.ID))
	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_GroupMembers(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, config.MongoConfig{URI: uri, Database: "omniai_test", ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer db.Close(context.Background())

	coll := "sessions_" + uuid.NewString()[:8]
	require.NoError(t, db.EnsureIndexes(ctx, coll))
	defer db.Database.Collection(coll).Drop(context.Background())

	repo := NewSessionRepository(db, coll)
	now := time.Now().UTC().Truncate(time.Millisecond)

	group := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    "owner",
		Title:     "Study group",
		Mode:      domain.ModePersistent,
		Group:     &domain.Group{Name: "Study group", Type: domain.GroupStudent, Members: []string{"owner"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, group))
	plain := &domain.Session{ID: uuid.NewString(), UserID: "owner", Title: "New Chat", Mode: domain.ModePersistent, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, plain))

	require.NoError(t, repo.AddMember(ctx, group.ID, "guest"))
	require.NoError(t, repo.AddMember(ctx, group.ID, "guest"))
	assert.ErrorIs(t, repo.AddMember(ctx, plain.ID, "guest"), domain.ErrSessionNotFound)

	got, err := repo.Get(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Group)
	assert.Equal(t, []string{"owner", "guest"}, got.Group.Members)

	list, err := repo.ListByUser(ctx, "guest", now.Add(-time.Minute), now.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, group.ID, list[0].ID)
}
