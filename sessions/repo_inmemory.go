package sessions

import (
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryRepo is an in-process implementation of Repo backed by an expiring
// cache. Records not touched within the TTL are reaped by the cache janitor.
type InMemoryRepo struct {
	cache *gocache.Cache
}

// NewInMemoryRepo creates a session repository whose records expire after ttl.
func NewInMemoryRepo(ttl time.Duration) *InMemoryRepo {
	cleanupInterval := ttl / 2
	if cleanupInterval > 10*time.Minute {
		cleanupInterval = 10 * time.Minute
	}
	return &InMemoryRepo{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Upsert creates or updates a session record
func (r *InMemoryRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}
	r.cache.Set(sessionID, session, gocache.DefaultExpiration)
	return nil
}

// Get retrieves a session record by ID
func (r *InMemoryRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.New("sessionID is required")
	}

	value, found := r.cache.Get(sessionID)
	if !found {
		return Session{}, ErrSessionNotFound
	}

	session, ok := value.(Session)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session record. Deleting an absent record is not an error.
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}
	r.cache.Delete(sessionID)
	return nil
}
