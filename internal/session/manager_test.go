package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestManager(repo domain.SessionRepository) *Manager {
	m := NewManager(repo, memory.NewEphemeralStore(time.Hour, time.Minute), NewMemoryLocker(), config.SessionConfig{DefaultListLimit: 50})
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m
}

func interaction(id string) *domain.Interaction {
	return &domain.Interaction{ID: id, ToolID: "chat", CreatedAt: time.Now()}
}

func TestManager_EphemeralNeverTouchesStore(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	h, err := m.GetOrCreate(ctx, "", "user-1", domain.ModeEphemeral)
	require.NoError(t, err)
	assert.Equal(t, DefaultEphemeralTitle, h.Session.Title)

	require.NoError(t, m.Append(ctx, h, interaction("i1"), "Write an ad for sneakers aimed at teenagers everywhere"))
	require.NoError(t, m.Append(ctx, h, interaction("i2"), "ignored"))

	got, err := m.Get(ctx, h.Session.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Write an ad for sneakers aimed at teenag...", got.Title)
	require.Len(t, got.Interactions, 2)
	assert.Equal(t, "i1", got.Interactions[0].ID)
	assert.Equal(t, h.Session.ID, got.Interactions[0].SessionID)

	// No expectations were set: any store call would panic
	repo.AssertExpectations(t)
}

func TestManager_EphemeralLostAfterRestart(t *testing.T) {
	repo := new(MockSessionRepository)
	ctx := context.Background()

	first := newTestManager(repo)
	h, err := first.GetOrCreate(ctx, "", "", domain.ModeEphemeral)
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, h, interaction("i1"), "hello"))

	restarted := newTestManager(repo)
	_, err = restarted.GetOrCreate(ctx, h.Session.ID, "", domain.ModeEphemeral)
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))
}

func TestManager_PersistentCreatedWithFirstInteraction(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	h, err := m.GetOrCreate(ctx, "", "user-1", domain.ModePersistent)
	require.NoError(t, err)

	repo.On("Create", ctx, mock.MatchedBy(func(s *domain.Session) bool {
		return s.ID == h.Session.ID && len(s.Interactions) == 1 && s.Title == "Plan a trip"
	})).Return(nil).Once()

	require.NoError(t, m.Append(ctx, h, interaction("i1"), "Plan a trip"))

	repo.On("AppendInteraction", ctx, h.Session.ID, mock.AnythingOfType("*domain.Interaction"), "").Return(nil).Once()
	require.NoError(t, m.Append(ctx, h, interaction("i2"), "Plan a trip"))

	assert.Len(t, h.Session.Interactions, 2)
	repo.AssertExpectations(t)
}

func TestManager_AppendStoreFailure(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	existing := &domain.Session{ID: "s1", UserID: "user-1", Mode: domain.ModePersistent}
	repo.On("Get", ctx, "s1").Return(existing, nil)
	repo.On("AppendInteraction", ctx, "s1", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	h, err := m.GetOrCreate(ctx, "s1", "user-1", domain.ModePersistent)
	require.NoError(t, err)

	err = m.Append(ctx, h, interaction("i1"), "title")
	assert.True(t, domain.IsKind(err, domain.KindStoreUnavailable))
	assert.Empty(t, h.Session.Interactions)
}

func TestManager_Lookup(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "missing").Return(nil, domain.ErrSessionNotFound)
	repo.On("Get", ctx, "theirs").Return(&domain.Session{ID: "theirs", UserID: "user-2"}, nil)
	repo.On("Get", ctx, "down").Return(nil, errors.New("server selection timeout"))

	_, err := m.GetOrCreate(ctx, "missing", "user-1", domain.ModePersistent)
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))

	_, err = m.Get(ctx, "theirs", "user-1")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))

	_, err = m.History(ctx, "down", "user-1")
	assert.True(t, domain.IsKind(err, domain.KindStoreUnavailable))
}

func TestManager_DeleteIsIdempotent(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "s1").Return(&domain.Session{ID: "s1", UserID: "user-1"}, nil).Once()
	repo.On("Delete", ctx, "s1").Return(nil).Once()
	repo.On("Get", ctx, "s1").Return(nil, domain.ErrSessionNotFound)

	assert.NoError(t, m.Delete(ctx, "s1", "user-1"))
	assert.NoError(t, m.Delete(ctx, "s1", "user-1"))

	tmp, err := m.Create(ctx, "user-1", domain.ModeEphemeral, "")
	require.NoError(t, err)
	assert.NoError(t, m.Delete(ctx, tmp.ID, "user-1"))
	repo.On("Get", ctx, tmp.ID).Return(nil, domain.ErrSessionNotFound)
	_, err = m.Get(ctx, tmp.ID, "user-1")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))

	repo.AssertExpectations(t)
}

func TestManager_AppendAfterDeleteDoesNotRestoreEphemeral(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	tmp, err := m.Create(ctx, "user-1", domain.ModeEphemeral, "")
	require.NoError(t, err)
	h, err := m.GetOrCreate(ctx, tmp.ID, "user-1", "")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, tmp.ID, "user-1"))

	err = m.Append(ctx, h, interaction("i1"), "hello")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))

	repo.On("Get", ctx, tmp.ID).Return(nil, domain.ErrSessionNotFound)
	_, err = m.Get(ctx, tmp.ID, "user-1")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestManager_List(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := m.now().Add(time.Second)
	repo.On("ListByUser", ctx, "user-1", from, to, 50).Return(nil, nil)

	sessions, err := m.List(ctx, "user-1", from, time.Time{}, 0)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestManager_AcquireRejectsSecondWriter(t *testing.T) {
	m := newTestManager(new(MockSessionRepository))
	ctx := context.Background()

	release, err := m.Acquire(ctx, "s1")
	require.NoError(t, err)

	_, err = m.Acquire(ctx, "s1")
	assert.True(t, domain.IsKind(err, domain.KindSessionBusy))

	other, err := m.Acquire(ctx, "s2")
	require.NoError(t, err)
	other()

	release()
	release()
	again, err := m.Acquire(ctx, "s1")
	require.NoError(t, err)
	again()
}

func TestManager_ConcurrentSessionsKeepOrder(t *testing.T) {
	m := newTestManager(new(MockSessionRepository))
	ctx := context.Background()

	const sessions, perSession = 8, 20
	handles := make([]*Handle, sessions)
	for i := range handles {
		h, err := m.GetOrCreate(ctx, "", "", domain.ModeEphemeral)
		require.NoError(t, err)
		handles[i] = h
	}

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *Handle) {
			defer wg.Done()
			for j := 0; j < perSession; j++ {
				release, err := m.Acquire(ctx, h.Session.ID)
				if !assert.NoError(t, err) {
					return
				}
				assert.NoError(t, m.Append(ctx, h, interaction(fmt.Sprint(j)), "x"))
				release()
			}
		}(h)
	}
	wg.Wait()

	for _, h := range handles {
		history, err := m.History(ctx, h.Session.ID, "")
		require.NoError(t, err)
		require.Len(t, history, perSession)
		for j, in := range history {
			assert.Equal(t, fmt.Sprint(j), in.ID)
		}
	}
}

func TestManager_CreateGroup(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(s *domain.Session) bool {
		return s.Mode == domain.ModePersistent && s.Group != nil &&
			s.Group.Type == domain.GroupGeneral && s.Title == "Weekend plans"
	})).Return(nil).Once()

	s, err := m.CreateGroup(ctx, "owner", "Weekend plans", "")
	require.NoError(t, err)
	assert.Equal(t, "owner", s.UserID)
	assert.Equal(t, []string{"owner"}, s.Group.Members)

	_, err = m.CreateGroup(ctx, "", "x", domain.GroupStudent)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	_, err = m.CreateGroup(ctx, "owner", "x", "family")
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))

	repo.AssertExpectations(t)
}

func TestManager_JoinGroup(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	group := func() *domain.Session {
		return &domain.Session{
			ID:     "g1",
			UserID: "owner",
			Mode:   domain.ModePersistent,
			Group:  &domain.Group{Name: "Study", Type: domain.GroupStudent, Members: []string{"owner"}},
		}
	}
	repo.On("Get", ctx, "g1").Return(group(), nil)
	repo.On("Get", ctx, "plain").Return(&domain.Session{ID: "plain", UserID: "owner"}, nil)
	repo.On("AddMember", ctx, "g1", "guest").Return(nil).Once()

	_, err := m.Get(ctx, "g1", "guest")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound), "non-members do not see the group")

	s, err := m.JoinGroup(ctx, "g1", "guest")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner", "guest"}, s.Group.Members)

	// already a member: no second write
	_, err = m.JoinGroup(ctx, "g1", "owner")
	require.NoError(t, err)

	_, err = m.JoinGroup(ctx, "plain", "guest")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))

	_, err = m.JoinGroup(ctx, "g1", "")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	repo.AssertExpectations(t)
}

func TestManager_GroupMembersShareHistory(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	stored := &domain.Session{
		ID:     "g1",
		UserID: "owner",
		Mode:   domain.ModePersistent,
		Group:  &domain.Group{Name: "Pitch", Type: domain.GroupBusiness, Members: []string{"owner", "guest"}},
	}
	repo.On("Get", ctx, "g1").Return(stored, nil)
	repo.On("AppendInteraction", ctx, "g1", mock.Anything, mock.Anything).Return(nil).Once()

	h, err := m.GetOrCreate(ctx, "g1", "guest", domain.ModePersistent)
	require.NoError(t, err)
	in := interaction("i1")
	in.AuthorID = "guest"
	require.NoError(t, m.Append(ctx, h, in, "how do we price this"))

	history, err := m.History(ctx, "g1", "owner")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "guest", history[0].AuthorID)

	_, err = m.History(ctx, "g1", "stranger")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))
}

func TestManager_DeleteGroupCreatorOnly(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newTestManager(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "g1").Return(&domain.Session{
		ID:     "g1",
		UserID: "owner",
		Mode:   domain.ModePersistent,
		Group:  &domain.Group{Name: "Pitch", Type: domain.GroupBusiness, Members: []string{"owner", "guest"}},
	}, nil)
	repo.On("Delete", ctx, "g1").Return(nil).Once()

	err := m.Delete(ctx, "g1", "guest")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	err = m.Delete(ctx, "g1", "stranger")
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))

	require.NoError(t, m.Delete(ctx, "g1", "owner"))
	repo.AssertExpectations(t)
}
