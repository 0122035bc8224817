package travsession_test

import (
	"testing"
	"time"

	"github.com/mkXultra/graphiti-mcp-server/internal/travsession"
)

func newSession(root string) *travsession.TraverseSession {
	return &travsession.TraverseSession{
		RootUUID:  root,
		MaxDepth:  3,
		Strategy:  "bfs",
		Frontier:  []travsession.Frame{{NodeUUID: root, DepthRemaining: 3}},
		Visited:   []string{root},
		StartedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestStore_SaveLoad_RoundTrips(t *testing.T) {
	s := travsession.NewStore()
	sess := newSession("root1")

	s.Save("sid1", sess)

	got := s.Load("sid1")
	if got == nil {
		t.Fatal("expected session to be found")
	}

	if got.RootUUID != "root1" || len(got.Frontier) != 1 {
		t.Fatalf("unexpected session contents: %+v", got)
	}
}

func TestStore_Load_MissingReturnsNil(t *testing.T) {
	s := travsession.NewStore()

	if got := s.Load("nope"); got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}
}

func TestStore_Load_DeepCopiesSlices(t *testing.T) {
	s := travsession.NewStore()
	sess := newSession("root1")
	s.Save("sid1", sess)

	got := s.Load("sid1")
	got.Frontier[0].NodeUUID = "mutated"
	got.Visited = append(got.Visited, "extra")

	again := s.Load("sid1")
	if again.Frontier[0].NodeUUID != "root1" {
		t.Fatalf("mutating loaded frontier leaked into store: %+v", again.Frontier)
	}

	if len(again.Visited) != 1 {
		t.Fatalf("mutating loaded visited leaked into store: %v", again.Visited)
	}
}

func TestStore_Save_DeepCopiesSlices(t *testing.T) {
	s := travsession.NewStore()
	sess := newSession("root1")

	s.Save("sid1", sess)
	sess.Frontier[0].NodeUUID = "mutated-after-save"

	got := s.Load("sid1")
	if got.Frontier[0].NodeUUID != "root1" {
		t.Fatalf("mutating original after Save leaked into store: %+v", got.Frontier)
	}
}

func TestStore_Load_EvictsExpiredSession(t *testing.T) {
	s := travsession.NewStore()
	sess := newSession("root1")
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	s.Save("sid1", sess)

	if got := s.Load("sid1"); got != nil {
		t.Fatalf("expected expired session to be evicted on Load, got %+v", got)
	}

	if s.Len() != 0 {
		t.Fatalf("expected expired session to be removed from store, Len()=%d", s.Len())
	}
}

func TestStore_Load_ZeroExpiresAtNeverEvicted(t *testing.T) {
	s := travsession.NewStore()
	sess := newSession("root1")
	sess.ExpiresAt = time.Time{}

	s.Save("sid1", sess)

	if got := s.Load("sid1"); got == nil {
		t.Fatal("expected session with zero ExpiresAt to never be evicted")
	}
}

func TestStore_Delete_RemovesSession(t *testing.T) {
	s := travsession.NewStore()
	s.Save("sid1", newSession("root1"))

	s.Delete("sid1")

	if got := s.Load("sid1"); got != nil {
		t.Fatalf("expected session to be gone after Delete, got %+v", got)
	}
}

func TestStore_Delete_MissingIsNoop(t *testing.T) {
	s := travsession.NewStore()
	s.Delete("nope")
}

func TestStore_Sweep_RemovesOnlyExpired(t *testing.T) {
	s := travsession.NewStore()

	expired := newSession("root1")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	s.Save("expired", expired)

	live := newSession("root2")
	s.Save("live", live)

	removed := s.Sweep()
	if removed != 1 {
		t.Fatalf("expected Sweep to remove 1 session, removed %d", removed)
	}

	if s.Len() != 1 {
		t.Fatalf("expected 1 session to remain, Len()=%d", s.Len())
	}
}

func TestStore_Len_CountsAllSessions(t *testing.T) {
	s := travsession.NewStore()
	if s.Len() != 0 {
		t.Fatalf("expected empty store to have Len 0, got %d", s.Len())
	}

	s.Save("a", newSession("root1"))
	s.Save("b", newSession("root2"))

	if s.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", s.Len())
	}
}

func TestTraverseSession_VisitedSet(t *testing.T) {
	sess := newSession("root1")
	sess.Visited = []string{"a", "b", "a"}

	set := sess.VisitedSet()
	if len(set) != 2 || !set["a"] || !set["b"] {
		t.Fatalf("unexpected visited set: %v", set)
	}
}

func TestStore_ClearAll_RemovesEverything(t *testing.T) {
	s := travsession.NewStore()
	s.Save("a", newSession("root1"))
	s.Save("b", newSession("root2"))

	s.ClearAll()

	if s.Len() != 0 {
		t.Fatalf("expected Len 0 after ClearAll, got %d", s.Len())
	}
}
