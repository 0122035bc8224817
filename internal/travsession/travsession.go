// Package travsession holds the resumable BFS state (frontier, visited set,
// emission counters) for an in-flight paginated traversal, keyed by an
// opaque session ID. It is process-local and in-memory, matching the
// traversal engine's scope: a session never outlives the process, and never
// needs to be shared across replicas.
package travsession

import (
	"sync"
	"time"
)

// Frame is one entry in the BFS frontier: the node still being expanded, how
// many more hops may be taken from it, and the index of the next edge to
// consider in its (deterministically ordered) incident-edge list.
type Frame struct {
	NodeUUID       string `json:"node_uuid"`
	DepthRemaining int    `json:"depth_remaining"`
	NextEdgeIndex  int    `json:"next_edge_index"`
}

// TraverseSession is the full resumable state of one paginated traversal.
type TraverseSession struct {
	RootUUID      string    `json:"root_uuid"`
	MaxDepth      int       `json:"max_depth"`
	Strategy      string    `json:"strategy"`
	EdgeOrdering  string    `json:"edge_ordering"`
	QueryHash     string    `json:"query_hash"`
	SnapshotAsOf  *string   `json:"snapshot_as_of,omitempty"`
	Frontier      []Frame   `json:"frontier"`
	Visited       []string  `json:"visited"`
	YieldedEdges  int       `json:"yielded_edges"`
	StartedAt     time.Time `json:"started_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	SchemaVersion int       `json:"schema_version"`
}

// VisitedSet returns Visited as a lookup set.
func (s *TraverseSession) VisitedSet() map[string]bool {
	set := make(map[string]bool, len(s.Visited))
	for _, v := range s.Visited {
		set[v] = true
	}

	return set
}

// Store is a process-local, mutex-guarded session table with lazy TTL
// eviction: expired sessions are dropped the next time they're looked up or
// the store is swept, never via a background goroutine.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*TraverseSession
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*TraverseSession)}
}

// Save stores (or overwrites) the session under id.
func (s *Store) Save(id string, sess *TraverseSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	cp.Frontier = append([]Frame(nil), sess.Frontier...)
	cp.Visited = append([]string(nil), sess.Visited...)
	s.sessions[id] = &cp
}

// Load returns the session for id, or nil if it does not exist or has
// expired (in which case it is also evicted). The returned session is a
// copy; mutating it does not affect the store until Save is called again.
func (s *Store) Load(id string) *TraverseSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}

	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil
	}

	cp := *sess
	cp.Frontier = append([]Frame(nil), sess.Frontier...)
	cp.Visited = append([]string(nil), sess.Visited...)

	return &cp
}

// Delete removes a session, if present. Deleting a missing session is a
// no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// ClearAll removes every session. Intended for tests.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*TraverseSession)
}

// Sweep evicts every session past its expiry, returning the count removed.
// Callers may invoke this periodically; it is never required for
// correctness since Load already evicts lazily on access.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0

	for id, sess := range s.sessions {
		if !sess.ExpiresAt.IsZero() && now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Len reports the number of sessions currently held, expired or not. Used by
// metrics, not by correctness-sensitive code.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
