// Package graphops implements the traversal engine's two adjacent,
// single-shot operations: bounded-depth path enumeration between two
// entities, and seed-set subgraph assembly with optional pairwise path
// enrichment. Unlike the BFS engine (internal/bfsengine), neither operation
// is resumable or paginated — each call runs to completion against the
// store and returns a full result.
package graphops

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mkXultra/graphiti-mcp-server/internal/bfsengine"
	"github.com/mkXultra/graphiti-mcp-server/internal/flatfmt"
	"github.com/mkXultra/graphiti-mcp-server/internal/models"
)

// Limits mirror spec constants MAX_PATHS_PER_CALL / MAX_SUBGRAPH_HOP, plus
// the find_paths max_depth ceiling from spec §6 (operation 2: max_depth ≤ 5).
const (
	MaxPathsPerCall   = 50
	MaxSubgraphHop    = 3
	MaxFindPathsDepth = 5
)

// Service runs path enumeration and subgraph assembly against a graph
// store. It depends only on the BFS engine's capability interface
// (get-node-by-uuid, get-edges-incident) — no store implementation detail
// leaks in.
type Service struct {
	Store bfsengine.Store
}

// NewService constructs a Service over the given store capability.
func NewService(store bfsengine.Store) *Service {
	return &Service{Store: store}
}

func formatFact(e *models.Edge) models.FactResult {
	episodes := e.Episodes
	if episodes == nil {
		episodes = []string{}
	}

	rec := flatfmt.FormatEdge(e, 0, 0)

	return models.FactResult{
		UUID:       e.UUID(),
		Name:       e.Relation,
		Fact:       e.Fact,
		CreatedAt:  rec.CreatedAt,
		ValidAt:    rec.ValidAt,
		InvalidAt:  rec.InvalidAt,
		Confidence: nil,
		SourceUUID: e.Source,
		TargetUUID: e.Target,
		Episodes:   episodes,
	}
}

// GetEntityRelations returns every edge incident to entityUUID (either
// direction), formatted as fact records, in the order the store lists them.
// A store error is returned wrapped as a Go error.
func (s *Service) GetEntityRelations(ctx context.Context, tenantID, entityUUID string) ([]models.FactResult, error) {
	edges, err := s.Store.GetEdgesIncident(ctx, tenantID, entityUUID)
	if err != nil {
		return nil, fmt.Errorf("fetching entity relations: %w", err)
	}

	out := make([]models.FactResult, 0, len(edges))
	for i := range edges {
		out = append(out, formatFact(&edges[i]))
	}

	return out, nil
}

// adjacency returns the (other-endpoint, edge) pairs incident to nodeUUID.
func (s *Service) adjacency(ctx context.Context, tenantID, nodeUUID string) ([]struct {
	Other string
	Edge  models.Edge
}, error) {
	edges, err := s.Store.GetEdgesIncident(ctx, tenantID, nodeUUID)
	if err != nil {
		return nil, err
	}

	out := make([]struct {
		Other string
		Edge  models.Edge
	}, 0, len(edges))

	for _, e := range edges {
		other := e.Target
		if other == nodeUUID {
			other = e.Source
		}

		out = append(out, struct {
			Other string
			Edge  models.Edge
		}{Other: other, Edge: e})
	}

	return out, nil
}

type pathState struct {
	nodes []string
	edges []models.Edge
	onPath map[string]bool
}

// FindPaths enumerates up to maxPaths simple paths between from and to, no
// longer than maxDepth edges, shortest length first. It runs iterative
// deepening DFS: enumerate all simple paths of length L before considering
// length L+1, so the result is shortest-first without a full exhaustive
// search of the deepest layer when a shallow layer already fills maxPaths.
func (s *Service) FindPaths(
	ctx context.Context,
	tenantID, from, to string,
	maxDepth, maxPaths int,
) (*models.PathSearchResponse, error) {
	if maxDepth <= 0 {
		maxDepth = MaxFindPathsDepth
	}

	if maxDepth > MaxFindPathsDepth {
		maxDepth = MaxFindPathsDepth
	}

	if maxPaths <= 0 {
		maxPaths = 10
	}

	if maxPaths > MaxPathsPerCall {
		maxPaths = MaxPathsPerCall
	}

	var found []models.PathResult

	nodeSet := map[string]bool{from: true, to: true}
	edgeSet := map[string]*models.Edge{}

	for length := 1; length <= maxDepth && len(found) < maxPaths; length++ {
		st := &pathState{nodes: []string{from}, onPath: map[string]bool{from: true}}

		var dfs func(current string) error
		dfs = func(current string) error {
			if len(found) >= maxPaths {
				return nil
			}

			if len(st.nodes)-1 == length {
				if current == to {
					path := models.PathResult{
						PathID:       fmt.Sprintf("path_%d", len(found)+1),
						Length:       length,
						NodeSequence: append([]string(nil), st.nodes...),
						EdgeSequence: make([]string, 0, len(st.edges)),
					}

					for i := range st.edges {
						path.EdgeSequence = append(path.EdgeSequence, st.edges[i].UUID())
						nodeSet[st.nodes[i]] = true
						e := st.edges[i]
						edgeSet[e.UUID()] = &e
					}
					nodeSet[current] = true

					found = append(found, path)
				}

				return nil
			}

			neighbors, err := s.adjacency(ctx, tenantID, current)
			if err != nil {
				return err
			}

			for _, nb := range neighbors {
				if st.onPath[nb.Other] {
					continue
				}

				st.nodes = append(st.nodes, nb.Other)
				st.edges = append(st.edges, nb.Edge)
				st.onPath[nb.Other] = true

				if err := dfs(nb.Other); err != nil {
					return err
				}

				st.onPath[nb.Other] = false
				st.nodes = st.nodes[:len(st.nodes)-1]
				st.edges = st.edges[:len(st.edges)-1]

				if len(found) >= maxPaths {
					return nil
				}
			}

			return nil
		}

		if err := dfs(from); err != nil {
			return nil, fmt.Errorf("enumerating paths: %w", err)
		}
	}

	message := fmt.Sprintf("Found %d path(s) between %s and %s", len(found), from, to)
	if len(found) == 0 {
		message = fmt.Sprintf("No paths found between %s and %s within %d hops", from, to, maxDepth)
	}

	nodeDetails := make(map[string]any, len(nodeSet))
	for uuid := range nodeSet {
		n, err := s.Store.GetNodeByUUID(ctx, tenantID, uuid)
		if err != nil {
			nodeDetails[uuid] = map[string]any{"uuid": uuid, "error": "Node not found"}
			continue
		}
		nodeDetails[uuid] = flatfmt.FormatNode(n)
	}

	edgeDetails := make(map[string]models.FactResult, len(edgeSet))
	for id, e := range edgeSet {
		edgeDetails[id] = formatFact(e)
	}

	return &models.PathSearchResponse{
		Message:     message,
		Paths:       found,
		NodeDetails: nodeDetails,
		EdgeDetails: edgeDetails,
		Metadata: map[string]any{
			"from_uuid":        from,
			"to_uuid":          to,
			"max_depth":        maxDepth,
			"max_paths":        maxPaths,
			"total_paths_found": len(found),
		},
	}, nil
}

// BuildSubgraph assembles the subgraph spanning entityUUIDs plus their
// ≤maxHop Entity neighborhood: neighbors labelled "Episodic" are skipped
// during expansion, together with the edges to them (the pairwise path
// enrichment below does not filter them). When includePaths is set
// and more than one seed is given, every unordered pair present in the
// resulting node set is additionally enriched with FindPaths(min(3,
// maxHop*2), 5), run concurrently across pairs.
func (s *Service) BuildSubgraph(
	ctx context.Context,
	tenantID string,
	entityUUIDs []string,
	includePaths bool,
	maxHop int,
) (*models.SubgraphResponse, error) {
	if len(entityUUIDs) == 0 {
		return &models.SubgraphResponse{
			Message: "No seed entities provided",
			Subgraph: models.SubgraphPayload{
				Nodes:         map[string]any{},
				Edges:         []models.FactResult{},
				AdjacencyList: map[string][]string{},
			},
			Statistics: models.SubgraphStatistics{},
			Metadata: map[string]any{
				"entity_uuids": entityUUIDs,
				"max_hop":      maxHop,
			},
		}, nil
	}

	if maxHop < 0 || maxHop > MaxSubgraphHop {
		maxHop = MaxSubgraphHop
	}

	visited := map[string]bool{}
	for _, id := range entityUUIDs {
		visited[id] = true
	}

	frontier := append([]string(nil), entityUUIDs...)
	edgeSet := map[string]*models.Edge{}
	adjacency := map[string][]string{}

	for hop := 0; hop <= maxHop && len(frontier) > 0; hop++ {
		var next []string

		for _, node := range frontier {
			neighbors, err := s.adjacency(ctx, tenantID, node)
			if err != nil {
				continue
			}

			for _, nb := range neighbors {
				if n, err := s.Store.GetNodeByUUID(ctx, tenantID, nb.Other); err == nil && slices.Contains(n.LabelSet(), "Episodic") {
					continue
				}

				if !visited[nb.Other] {
					if hop == maxHop {
						// nb.Other lies beyond maxHop: neither it nor the
						// edge to it is part of the result.
						continue
					}

					visited[nb.Other] = true
					next = append(next, nb.Other)
				}

				edgeSet[nb.Edge.UUID()] = &nb.Edge
				adjacency[node] = appendUnique(adjacency[node], nb.Other)
				adjacency[nb.Other] = appendUnique(adjacency[nb.Other], node)
			}
		}

		if hop == 0 && maxHop == 0 {
			// max_hop == 0 restricts to edges strictly within the seed set.
			for id, e := range edgeSet {
				if !(visited[e.Source] && visited[e.Target] && isSeed(entityUUIDs, e.Source) && isSeed(entityUUIDs, e.Target)) {
					delete(edgeSet, id)
				}
			}

			break
		}

		frontier = next
	}

	nodeDetails := make(map[string]any, len(visited))

	ids := make([]string, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n, err := s.Store.GetNodeByUUID(ctx, tenantID, id)
		if err != nil {
			nodeDetails[id] = map[string]any{"uuid": id, "error": "Node not found"}
			continue
		}

		nodeDetails[id] = flatfmt.FormatNode(n)
	}

	edgeList := make([]models.FactResult, 0, len(edgeSet))
	for _, e := range edgeSet {
		edgeList = append(edgeList, formatFact(e))
	}
	sort.Slice(edgeList, func(i, j int) bool { return edgeList[i].UUID < edgeList[j].UUID })

	resp := &models.SubgraphResponse{
		Message: fmt.Sprintf("Subgraph assembled from %d seed entities", len(entityUUIDs)),
		Subgraph: models.SubgraphPayload{
			Nodes:         nodeDetails,
			Edges:         edgeList,
			AdjacencyList: adjacency,
		},
		Statistics: models.SubgraphStatistics{
			NodeCount: len(nodeDetails),
			EdgeCount: len(edgeList),
		},
		Metadata: map[string]any{
			"entity_uuids":  entityUUIDs,
			"max_hop":       maxHop,
			"include_paths": includePaths,
		},
	}

	if includePaths && len(entityUUIDs) > 1 {
		pairPathDepth := 3
		if maxHop*2 < pairPathDepth {
			pairPathDepth = maxHop * 2
		}
		if pairPathDepth < 1 {
			pairPathDepth = 1
		}

		pairs := make([][2]string, 0)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				pairs = append(pairs, [2]string{ids[i], ids[j]})
			}
		}

		results := make(map[string]models.PathSearchResponse, len(pairs))

		g, gctx := errgroup.WithContext(ctx)
		out := make([]*models.PathSearchResponse, len(pairs))

		for idx, pair := range pairs {
			idx, pair := idx, pair

			g.Go(func() error {
				r, err := s.FindPaths(gctx, tenantID, pair[0], pair[1], pairPathDepth, 5)
				if err != nil {
					return err
				}

				out[idx] = r
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("enriching subgraph with pairwise paths: %w", err)
		}

		for idx, pair := range pairs {
			key := fmt.Sprintf("%s_to_%s", pair[0], pair[1])
			results[key] = *out[idx]
		}

		resp.PathsBetweenEntities = results
	}

	return resp, nil
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}

	return append(list, v)
}

func isSeed(seeds []string, id string) bool {
	for _, s := range seeds {
		if s == id {
			return true
		}
	}

	return false
}
