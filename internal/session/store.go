// Package session keeps in-progress imports in memory between the upload, the
// repair edits and the final commit.
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gig-manager/backend/internal/importer"
	"github.com/gig-manager/backend/internal/storage/models"
)

// ErrNotFound is returned for an unknown or expired session.
var ErrNotFound = errors.New("import session not found")

// Session is one uploaded file being repaired and committed.
type Session struct {
	ID        string
	Type      importer.ImportType
	Owner     models.Organization
	Timezone  string
	FileName  string
	CreatedAt time.Time

	mu         sync.Mutex
	partition  *importer.Partition
	lastAccess atomic.Int64
}

// Snapshot is a point-in-time copy of a session for responses.
type Snapshot struct {
	ID             string               `json:"id"`
	Type           importer.ImportType  `json:"type"`
	OrganizationID string               `json:"organization_id"`
	Timezone       string               `json:"timezone"`
	FileName       string               `json:"file_name,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	Summary        importer.Summary     `json:"summary"`
	ValidRows      []importer.ParsedRow `json:"valid_rows"`
	InvalidRows    []importer.ParsedRow `json:"invalid_rows"`
}

// Do runs fn with exclusive access to the session's partition.
func (s *Session) Do(fn func(p *importer.Partition) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.partition)
}

// Snapshot copies the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.ID,
		Type:           s.Type,
		OrganizationID: s.Owner.ID,
		Timezone:       s.Timezone,
		FileName:       s.FileName,
		CreatedAt:      s.CreatedAt,
		Summary:        s.partition.Summary(),
		ValidRows:      s.partition.ValidRows(),
		InvalidRows:    s.partition.InvalidRows(),
	}
}

func (s *Session) touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// Store holds sessions until they are deleted or sit idle longer than the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store that expires sessions idle for longer than ttl.
// A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session around p.
func (s *Store) Create(p *importer.Partition, owner models.Organization, timezone, fileName string) *Session {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Type:      p.Type(),
		Owner:     owner,
		Timezone:  timezone,
		FileName:  fileName,
		CreatedAt: now.UTC(),
		partition: p,
	}
	sess.touch(now)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it as recently used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Delete discards a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Sweep removes idle sessions and returns how many it removed. Sessions busy
// in Do are left for the next sweep.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if !sess.idleSince().Before(cutoff) {
			continue
		}
		if !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
		removed++
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
