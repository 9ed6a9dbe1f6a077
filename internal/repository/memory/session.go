package memory

import (
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/patrickmn/go-cache"
)

// EphemeralStore holds temporary sessions in process memory. Entries expire
// after the configured TTL of inactivity and are lost on restart.
type EphemeralStore struct {
	cache *cache.Cache
}

// NewEphemeralStore creates a store whose entries live for ttl and are
// purged every cleanupInterval
func NewEphemeralStore(ttl, cleanupInterval time.Duration) *EphemeralStore {
	return &EphemeralStore{
		cache: cache.New(ttl, cleanupInterval),
	}
}

// Save stores a copy of the session and refreshes its expiration
func (s *EphemeralStore) Save(session *domain.Session) {
	s.cache.Set(session.ID, clone(session), cache.DefaultExpiration)
}

// Update replaces a session that is still cached. It reports false when the
// session was deleted or has expired.
func (s *EphemeralStore) Update(session *domain.Session) bool {
	return s.cache.Replace(session.ID, clone(session), cache.DefaultExpiration) == nil
}

// Get returns a copy of the session
func (s *EphemeralStore) Get(id string) (*domain.Session, bool) {
	if x, found := s.cache.Get(id); found {
		return clone(x.(*domain.Session)), true
	}
	return nil, false
}

func (s *EphemeralStore) Delete(id string) {
	s.cache.Delete(id)
}

func (s *EphemeralStore) Len() int {
	return s.cache.ItemCount()
}

func clone(src *domain.Session) *domain.Session {
	dst := *src
	dst.Interactions = make([]domain.Interaction, len(src.Interactions))
	copy(dst.Interactions, src.Interactions)
	return &dst
}
