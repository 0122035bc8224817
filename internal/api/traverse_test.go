package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/mkXultra/graphiti-mcp-server/internal/api"
	"github.com/mkXultra/graphiti-mcp-server/internal/cursor"
	"github.com/mkXultra/graphiti-mcp-server/internal/graphops"
	"github.com/mkXultra/graphiti-mcp-server/internal/models"
	"github.com/mkXultra/graphiti-mcp-server/internal/traverse"
	"github.com/mkXultra/graphiti-mcp-server/internal/travsession"
)

type fakeGraphStore struct {
	nodes map[string]*models.Node
	edges map[string][]models.Edge
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{nodes: make(map[string]*models.Node), edges: make(map[string][]models.Edge)}
}

func (f *fakeGraphStore) addNode(id string) {
	f.nodes[id] = &models.Node{ID: id, Type: "Entity", Label: id}
}

func (f *fakeGraphStore) addEdge(source, target, relation string) {
	e := models.Edge{Source: source, Target: target, Relation: relation}
	f.edges[source] = append(f.edges[source], e)
	f.edges[target] = append(f.edges[target], e)
}

func (f *fakeGraphStore) GetNodeByUUID(_ context.Context, _, uuid string) (*models.Node, error) {
	n, ok := f.nodes[uuid]
	if !ok {
		return nil, fmt.Errorf("node %q not found", uuid)
	}
	return n, nil
}

func (f *fakeGraphStore) GetEdgesIncident(_ context.Context, _, uuid string) ([]models.Edge, error) {
	return f.edges[uuid], nil
}

func newTraverseHandler(store *fakeGraphStore) *api.TraverseHandler {
	sessions := travsession.NewStore()
	codec := cursor.NewCodec([]byte("test-signing-secret"))
	svc := traverse.NewService(sessions, codec, store)

	return api.NewTraverseHandler(svc, testLogger())
}

func newGraphOpsHandler(store *fakeGraphStore) *api.GraphOpsHandler {
	return api.NewGraphOpsHandler(graphops.NewService(store), testLogger())
}

func TestTraversePage_FreshStart_Returns200(t *testing.T) {
	store := newFakeGraphStore()
	store.addNode("root")
	store.addNode("a")
	store.addEdge("root", "a", "knows")

	r := newTestRouter()
	h := newTraverseHandler(store)
	r.POST("/traverse_page", h.Page)

	w := doRequest(r, http.MethodPost, "/traverse_page", `{"start_node_uuid":"root"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTraversePage_MissingStartNode_Returns400(t *testing.T) {
	store := newFakeGraphStore()

	r := newTestRouter()
	h := newTraverseHandler(store)
	r.POST("/traverse_page", h.Page)

	w := doRequest(r, http.MethodPost, "/traverse_page", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTraversePage_InvalidCursor_Returns400(t *testing.T) {
	store := newFakeGraphStore()

	r := newTestRouter()
	h := newTraverseHandler(store)
	r.POST("/traverse_page", h.Page)

	w := doRequest(r, http.MethodPost, "/traverse_page", `{"cursor":"garbage"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTraversePage_ExpiredCursor_Returns410(t *testing.T) {
	store := newFakeGraphStore()
	store.addNode("root")

	sessions := travsession.NewStore()
	codec := cursor.NewCodec([]byte("test-signing-secret"))
	svc := traverse.NewService(sessions, codec, store)
	svc.CursorTTL = -1

	h := api.NewTraverseHandler(svc, testLogger())

	r := newTestRouter()
	r.POST("/traverse_page", h.Page)

	depth := 1
	issued, err := svc.Cursors.Issue("sid1", fmt.Sprintf("root:%d", depth), -time.Second)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	w := doRequest(r, http.MethodPost, "/traverse_page", fmt.Sprintf(`{"cursor":%q}`, issued.Token))
	if w.Code != http.StatusGone {
		t.Fatalf("expected 410, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEntityRelations_Returns200(t *testing.T) {
	store := newFakeGraphStore()
	store.addNode("a")
	store.addNode("b")
	store.addEdge("a", "b", "knows")

	r := newTestRouter()
	h := newGraphOpsHandler(store)
	r.GET("/entities/:id/relations", h.EntityRelations)

	w := doRequest(r, http.MethodGet, "/entities/a/relations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFindPaths_MissingToEntity_Returns400(t *testing.T) {
	store := newFakeGraphStore()

	r := newTestRouter()
	h := newGraphOpsHandler(store)
	r.POST("/find_paths", h.FindPaths)

	w := doRequest(r, http.MethodPost, "/find_paths", `{"from_entity_uuid":"a"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFindPaths_ValidRequest_Returns200(t *testing.T) {
	store := newFakeGraphStore()
	store.addNode("a")
	store.addNode("b")
	store.addEdge("a", "b", "knows")

	r := newTestRouter()
	h := newGraphOpsHandler(store)
	r.POST("/find_paths", h.FindPaths)

	w := doRequest(r, http.MethodPost, "/find_paths", `{"from_entity_uuid":"a","to_entity_uuid":"b"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBuildSubgraph_ValidRequest_Returns200(t *testing.T) {
	store := newFakeGraphStore()
	store.addNode("a")

	r := newTestRouter()
	h := newGraphOpsHandler(store)
	r.POST("/build_subgraph", h.BuildSubgraph)

	w := doRequest(r, http.MethodPost, "/build_subgraph", `{"entity_uuids":["a"],"max_hop":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
