package traverse_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkXultra/graphiti-mcp-server/internal/cursor"
	"github.com/mkXultra/graphiti-mcp-server/internal/models"
	"github.com/mkXultra/graphiti-mcp-server/internal/traverse"
	"github.com/mkXultra/graphiti-mcp-server/internal/travsession"
)

type fakeStore struct {
	nodes map[string]*models.Node
	edges map[string][]models.Edge
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: make(map[string]*models.Node), edges: make(map[string][]models.Edge)}
}

func (f *fakeStore) addNode(id string) {
	f.nodes[id] = &models.Node{ID: id, Type: "Entity", Label: id}
}

func (f *fakeStore) addEdge(source, target, relation string) {
	e := models.Edge{Source: source, Target: target, Relation: relation}
	f.edges[source] = append(f.edges[source], e)
	f.edges[target] = append(f.edges[target], e)
}

func (f *fakeStore) GetNodeByUUID(_ context.Context, _, uuid string) (*models.Node, error) {
	n, ok := f.nodes[uuid]
	if !ok {
		return nil, fmt.Errorf("node %q not found", uuid)
	}
	return n, nil
}

func (f *fakeStore) GetEdgesIncident(_ context.Context, _, uuid string) ([]models.Edge, error) {
	return f.edges[uuid], nil
}

func newTestService(store *fakeStore) *traverse.Service {
	sessions := travsession.NewStore()
	codec := cursor.NewCodec([]byte("test-signing-secret"))
	return traverse.NewService(sessions, codec, store)
}

func TestTraverse_FreshStart_NoCursor(t *testing.T) {
	store := newFakeStore()
	store.addNode("root")
	store.addNode("a")
	store.addEdge("root", "a", "knows")

	svc := newTestService(store)

	resp, err := svc.Traverse(context.Background(), traverse.Request{
		TenantID:      "tenant1",
		StartNodeUUID: "root",
	})
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}

	if resp.Start != "root" {
		t.Fatalf("unexpected start node: %q", resp.Start)
	}

	if resp.Cursor.HasMore {
		t.Fatal("expected small graph to complete without pagination")
	}
}

func TestTraverse_MissingStartNode_ReturnsInvalidArgument(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Traverse(context.Background(), traverse.Request{TenantID: "tenant1"})
	if !errors.Is(err, traverse.ErrInvalidArgument) {
		t.Fatalf("Traverse() error = %v, want ErrInvalidArgument", err)
	}
}

func TestTraverse_DepthExceedsMax_ReturnsInvalidArgument(t *testing.T) {
	store := newFakeStore()
	store.addNode("root")
	svc := newTestService(store)

	depth := traverse.MaxDepth + 1
	_, err := svc.Traverse(context.Background(), traverse.Request{
		TenantID:      "tenant1",
		StartNodeUUID: "root",
		Depth:         &depth,
	})
	if !errors.Is(err, traverse.ErrInvalidArgument) {
		t.Fatalf("Traverse() error = %v, want ErrInvalidArgument", err)
	}
}

func TestTraverse_CursorResumption_ContinuesSession(t *testing.T) {
	store := newFakeStore()
	store.addNode("root")
	store.addNode("a")
	store.addNode("b")
	store.addEdge("root", "a", "knows")
	store.addEdge("root", "b", "likes")

	svc := newTestService(store)
	svc.TokenLimit = 1 // force pagination on the first page

	depth := 1
	first, err := svc.Traverse(context.Background(), traverse.Request{
		TenantID:      "tenant1",
		StartNodeUUID: "root",
		Depth:         &depth,
	})
	if err != nil {
		t.Fatalf("first Traverse() error = %v", err)
	}

	if !first.Cursor.HasMore {
		t.Fatal("expected tiny token budget to force a cursor on the first page")
	}

	svc.TokenLimit = 100000 // let the resumed page finish

	second, err := svc.Traverse(context.Background(), traverse.Request{
		TenantID:    "tenant1",
		CursorToken: first.Cursor.Token,
	})
	if err != nil {
		t.Fatalf("second Traverse() error = %v", err)
	}

	if second.Cursor.HasMore {
		t.Fatal("expected resumed traversal to complete")
	}
}

func TestTraverse_ExpiredCursor_ReturnsCursorExpired(t *testing.T) {
	store := newFakeStore()
	store.addNode("root")
	store.addNode("a")
	store.addEdge("root", "a", "knows")
	svc := newTestService(store)
	svc.CursorTTL = -time.Second // already-expired cursors

	depth := 1
	svc.TokenLimit = 1
	first, err := svc.Traverse(context.Background(), traverse.Request{
		TenantID:      "tenant1",
		StartNodeUUID: "root",
		Depth:         &depth,
	})
	if err != nil {
		t.Fatalf("first Traverse() error = %v", err)
	}

	_, err = svc.Traverse(context.Background(), traverse.Request{
		TenantID:    "tenant1",
		CursorToken: first.Cursor.Token,
	})
	if !errors.Is(err, traverse.ErrCursorExpired) {
		t.Fatalf("Traverse() error = %v, want ErrCursorExpired", err)
	}
}

func TestTraverse_TamperedCursor_ReturnsInvalidCursor(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Traverse(context.Background(), traverse.Request{
		TenantID:    "tenant1",
		CursorToken: "not-a-real-cursor",
	})
	if !errors.Is(err, traverse.ErrInvalidCursor) {
		t.Fatalf("Traverse() error = %v, want ErrInvalidCursor", err)
	}
}

func TestTraverse_UnknownSession_ReturnsSessionNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	// Issue a cursor for a session that was never saved to the store.
	issued, err := svc.Cursors.Issue("ghost-session", "root:1", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = svc.Traverse(context.Background(), traverse.Request{
		TenantID:    "tenant1",
		CursorToken: issued.Token,
	})
	if !errors.Is(err, traverse.ErrSessionNotFound) {
		t.Fatalf("Traverse() error = %v, want ErrSessionNotFound", err)
	}
}
