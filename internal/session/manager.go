package session

import (
	"context"
	"errors"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/memory"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/tool"
	"github.com/google/uuid"
)

const (
	DefaultPersistentTitle = "New Chat"
	DefaultEphemeralTitle  = "Temporary Chat"

	titleMaxRunes = 40
)

// Handle is a session resolved for one invocation. It is owned by the
// caller holding the session lock.
type Handle struct {
	Session *domain.Session
	// unsaved is true for a new persistent session that has not been
	// written yet; it is created together with its first interaction
	unsaved bool
}

// Manager is the only component that touches session storage
type Manager struct {
	repo      domain.SessionRepository
	ephemeral *memory.EphemeralStore
	locker    Locker
	cfg       config.SessionConfig
	now       func() time.Time
}

// NewManager creates a session manager
func NewManager(repo domain.SessionRepository, ephemeral *memory.EphemeralStore, locker Locker, cfg config.SessionConfig) *Manager {
	return &Manager{
		repo:      repo,
		ephemeral: ephemeral,
		locker:    locker,
		cfg:       cfg,
		now:       time.Now,
	}
}

// GetOrCreate resolves ref in the store for mode, or starts a new session
// when ref is empty. An empty mode searches ephemeral sessions first.
func (m *Manager) GetOrCreate(ctx context.Context, ref, userID string, mode domain.SessionMode) (*Handle, error) {
	if ref == "" {
		if mode == "" {
			mode = domain.ModeEphemeral
		}
		return &Handle{Session: m.newSession(userID, mode, ""), unsaved: true}, nil
	}

	s, err := m.lookup(ctx, ref, userID, mode)
	if err != nil {
		return nil, err
	}
	return &Handle{Session: s}, nil
}

// Create starts a session explicitly. Persistent sessions are written
// immediately.
func (m *Manager) Create(ctx context.Context, userID string, mode domain.SessionMode, title string) (*domain.Session, error) {
	s := m.newSession(userID, mode, title)

	if mode == domain.ModeEphemeral {
		m.ephemeral.Save(s)
		return s, nil
	}

	if err := m.repo.Create(ctx, s); err != nil {
		return nil, domain.WrapError(domain.KindStoreUnavailable, "failed to create session", err)
	}
	return s, nil
}

// CreateGroup starts a persistent group session owned by userID, who is its
// first member. An empty groupType means general.
func (m *Manager) CreateGroup(ctx context.Context, userID, name string, groupType domain.GroupType) (*domain.Session, error) {
	if userID == "" {
		return nil, domain.NewError(domain.KindForbidden, "group chats require a signed-in user")
	}
	if name == "" {
		return nil, domain.InvalidInput(map[string]string{"name": "is required"})
	}
	switch groupType {
	case "":
		groupType = domain.GroupGeneral
	case domain.GroupStudent, domain.GroupBusiness, domain.GroupGeneral:
	default:
		return nil, domain.InvalidInput(map[string]string{"type": "must be one of student business general"})
	}

	s := m.newSession(userID, domain.ModePersistent, name)
	s.Group = &domain.Group{Name: name, Type: groupType, Members: []string{userID}}
	if err := m.repo.Create(ctx, s); err != nil {
		return nil, domain.WrapError(domain.KindStoreUnavailable, "failed to create group", err)
	}
	return s, nil
}

// JoinGroup adds userID to a group's members. Joining twice is a no-op.
func (m *Manager) JoinGroup(ctx context.Context, id, userID string) (*domain.Session, error) {
	if userID == "" {
		return nil, domain.NewError(domain.KindForbidden, "group chats require a signed-in user")
	}
	s, err := m.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStoreUnavailable, "failed to load group", err)
	}
	if s.Group == nil {
		return nil, notFound(id)
	}
	if s.Group.HasMember(userID) {
		return s, nil
	}

	if err := m.repo.AddMember(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, notFound(id)
		}
		return nil, domain.WrapError(domain.KindStoreUnavailable, "failed to join group", err)
	}
	s.Group.Members = append(s.Group.Members, userID)
	return s, nil
}

// Append records one interaction on the handle's session. The first
// interaction also sets the session title from headline.
func (m *Manager) Append(ctx context.Context, h *Handle, in *domain.Interaction, headline string) error {
	s := h.Session
	in.SessionID = s.ID

	var title string
	if len(s.Interactions) == 0 && headline != "" {
		title = tool.Truncate(headline, titleMaxRunes)
	}

	if s.Mode == domain.ModeEphemeral {
		updated := *s
		updated.Interactions = append(append([]domain.Interaction(nil), s.Interactions...), *in)
		updated.UpdatedAt = in.CreatedAt
		if title != "" {
			updated.Title = title
		}
		if h.unsaved {
			m.ephemeral.Save(&updated)
		} else if !m.ephemeral.Update(&updated) {
			return domain.WrapError(domain.KindSessionNotFound, "session was deleted", domain.ErrSessionNotFound)
		}
		h.Session, h.unsaved = &updated, false
		return nil
	}

	if h.unsaved {
		created := *s
		created.Interactions = []domain.Interaction{*in}
		created.UpdatedAt = in.CreatedAt
		if title != "" {
			created.Title = title
		}
		if err := m.repo.Create(ctx, &created); err != nil {
			return domain.WrapError(domain.KindStoreUnavailable, "failed to save session", err)
		}
		h.Session, h.unsaved = &created, false
		return nil
	}

	if err := m.repo.AppendInteraction(ctx, s.ID, in, title); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.WrapError(domain.KindSessionNotFound, "session was deleted", err)
		}
		return domain.WrapError(domain.KindStoreUnavailable, "failed to append interaction", err)
	}

	s.Interactions = append(s.Interactions, *in)
	s.UpdatedAt = in.CreatedAt
	if title != "" {
		s.Title = title
	}
	return nil
}

// Get returns a session with its interactions
func (m *Manager) Get(ctx context.Context, id, userID string) (*domain.Session, error) {
	return m.lookup(ctx, id, userID, "")
}

// History returns a session's interactions in insertion order
func (m *Manager) History(ctx context.Context, id, userID string) ([]domain.Interaction, error) {
	s, err := m.lookup(ctx, id, userID, "")
	if err != nil {
		return nil, err
	}
	if s.Interactions == nil {
		return []domain.Interaction{}, nil
	}
	return s.Interactions, nil
}

// Delete removes a session from whichever store holds it. Deleting a
// missing session succeeds. Only the creator may delete a group.
func (m *Manager) Delete(ctx context.Context, id, userID string) error {
	if s, ok := m.ephemeral.Get(id); ok {
		if !owns(s, userID) {
			return notFound(id)
		}
		m.ephemeral.Delete(id)
		return nil
	}

	s, err := m.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return domain.WrapError(domain.KindStoreUnavailable, "failed to load session", err)
	}
	if !owns(s, userID) {
		return notFound(id)
	}
	if s.Group != nil && s.UserID != userID {
		return domain.NewError(domain.KindForbidden, "only the group creator can delete it")
	}

	if err := m.repo.Delete(ctx, id); err != nil {
		return domain.WrapError(domain.KindStoreUnavailable, "failed to delete session", err)
	}
	return nil
}

// List returns a user's persistent sessions, groups they joined included, created in [from, to), newest
// first. A zero to means now.
func (m *Manager) List(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error) {
	if to.IsZero() {
		to = m.now().Add(time.Second)
	}
	if limit <= 0 {
		limit = m.cfg.DefaultListLimit
	}

	sessions, err := m.repo.ListByUser(ctx, userID, from, to, limit)
	if err != nil {
		return nil, domain.WrapError(domain.KindStoreUnavailable, "failed to list sessions", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return sessions, nil
}

// Acquire takes the single-writer lease on a session. A held lease yields
// SessionBusy without waiting.
func (m *Manager) Acquire(ctx context.Context, id string) (func(), error) {
	release, ok, err := m.locker.TryLock(ctx, "session:"+id)
	if err != nil {
		return nil, domain.WrapError(domain.KindStoreUnavailable, "failed to lock session", err)
	}
	if !ok {
		return nil, domain.NewError(domain.KindSessionBusy, "session "+id+" has an invocation in progress")
	}
	return release, nil
}

func (m *Manager) lookup(ctx context.Context, id, userID string, mode domain.SessionMode) (*domain.Session, error) {
	if mode != domain.ModePersistent {
		if s, ok := m.ephemeral.Get(id); ok {
			if !owns(s, userID) {
				return nil, notFound(id)
			}
			return s, nil
		}
		if mode == domain.ModeEphemeral {
			return nil, notFound(id)
		}
	}

	s, err := m.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStoreUnavailable, "failed to load session", err)
	}
	if !owns(s, userID) {
		return nil, notFound(id)
	}
	return s, nil
}

func (m *Manager) newSession(userID string, mode domain.SessionMode, title string) *domain.Session {
	if title == "" {
		title = DefaultPersistentTitle
		if mode == domain.ModeEphemeral {
			title = DefaultEphemeralTitle
		}
	}
	now := m.now().UTC()
	return &domain.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        title,
		Mode:         mode,
		CreatedAt:    now,
		UpdatedAt:    now,
		Interactions: []domain.Interaction{},
	}
}

// Sessions without an owner are shared; anonymous callers only see those.
// Group members see the group.
func owns(s *domain.Session, userID string) bool {
	if s.UserID == "" || s.UserID == userID {
		return true
	}
	return userID != "" && s.Group != nil && s.Group.HasMember(userID)
}

func notFound(id string) error {
	return domain.WrapError(domain.KindSessionNotFound, "session "+id+" not found", domain.ErrSessionNotFound)
}
