package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"
)

// Store keeps a bounded number of sessions. When full, the least recently
// used session is evicted.
type Store struct {
	cache *lru.Cache[string, *Session]
	log   logger.Logger

	evicted stats.Measurement
	deleted stats.Measurement

	// mu serializes the calls that can fire onEvict, so deleting tells an
	// explicit delete from a capacity eviction.
	mu       sync.Mutex
	deleting bool
}

// NewStore creates a store holding at most size sessions. log and st may
// be nil.
func NewStore(size int, log logger.Logger, st stats.Stats) (*Store, error) {
	if log == nil {
		log = logger.NOP
	}
	if st == nil {
		st = stats.NOP
	}
	s := &Store{
		log:     log,
		evicted: st.NewTaggedStat("csvlens_sessions_removed", stats.CountType, stats.Tags{"reason": "evicted"}),
		deleted: st.NewTaggedStat("csvlens_sessions_removed", stats.CountType, stats.Tags{"reason": "deleted"}),
	}

	cache, err := lru.NewWithEvict[string, *Session](size, s.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Create adds a new empty session.
func (s *Store) Create() *Session {
	sess := New(uuid.NewString())

	s.mu.Lock()
	s.cache.Add(sess.ID, sess)
	s.mu.Unlock()

	s.log.Debugn("session created", logger.NewStringField("session", sess.ID))
	return sess
}

// Get returns a session and marks it recently used.
func (s *Store) Get(id string) (*Session, bool) {
	return s.cache.Get(id)
}

// Delete removes a session.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleting = true
	defer func() { s.deleting = false }()
	return s.cache.Remove(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}

// onEvict runs with s.mu held, for capacity evictions and deletes alike.
func (s *Store) onEvict(id string, sess *Session) {
	sess.Clear()
	if s.deleting {
		s.deleted.Increment()
		s.log.Infon("session deleted", logger.NewStringField("session", id))
		return
	}
	s.evicted.Increment()
	s.log.Infon("session evicted", logger.NewStringField("session", id))
}
