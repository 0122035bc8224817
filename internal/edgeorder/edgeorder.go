// Package edgeorder provides the deterministic, total ordering over a node's
// incident edges that the BFS engine relies on to make traversal pages
// stable across repeated queries, even if the backing store returns edges
// in a different order each time.
package edgeorder

import (
	"sort"

	"github.com/mkXultra/graphiti-mcp-server/internal/models"
)

// Mode names one of the three supported edge orderings.
type Mode string

const (
	// ByUUID orders edges by relation type, then other-endpoint UUID.
	ByUUID Mode = "uuid"
	// ByTypeThenUUID orders edges by relation type, then creation time, then
	// other-endpoint UUID.
	ByTypeThenUUID Mode = "type_then_uuid"
	// ByCreatedAtThenUUID orders edges by creation time (zero times last),
	// then relation type, then other-endpoint UUID.
	ByCreatedAtThenUUID Mode = "created_at_then_uuid"
)

// Valid reports whether m names one of the supported ordering modes.
func (m Mode) Valid() bool {
	switch m {
	case ByUUID, ByTypeThenUUID, ByCreatedAtThenUUID:
		return true
	default:
		return false
	}
}

// otherEndpoint returns the UUID of the endpoint of e that is not focus: the
// "other-endpoint UUID" referenced throughout the key tuples below.
func otherEndpoint(e *models.Edge, focus string) string {
	if e.Source == focus {
		return e.Target
	}
	return e.Source
}

// Sort orders the edges incident to focus in place according to mode, per
// the key tuples below. Every mode breaks any remaining ambiguity on the
// edge's identity string, so the result is a total order regardless of
// input order or duplicate relations between the same pair of nodes.
//
//	uuid                  relation type, other-endpoint UUID
//	type_then_uuid        relation type, created-at, other-endpoint UUID
//	created_at_then_uuid  created-at (nulls last), relation type, other-endpoint UUID
func Sort(edges []models.Edge, focus string, mode Mode) {
	switch mode {
	case ByTypeThenUUID:
		sort.SliceStable(edges, func(i, j int) bool {
			if edges[i].Relation != edges[j].Relation {
				return edges[i].Relation < edges[j].Relation
			}
			if !edges[i].CreatedAt.Equal(edges[j].CreatedAt) {
				return edges[i].CreatedAt.Before(edges[j].CreatedAt)
			}
			if oi, oj := otherEndpoint(&edges[i], focus), otherEndpoint(&edges[j], focus); oi != oj {
				return oi < oj
			}
			return edges[i].UUID() < edges[j].UUID()
		})
	case ByCreatedAtThenUUID:
		sort.SliceStable(edges, func(i, j int) bool {
			if !edges[i].CreatedAt.Equal(edges[j].CreatedAt) {
				// Nulls (zero time) sort last.
				if edges[i].CreatedAt.IsZero() {
					return false
				}
				if edges[j].CreatedAt.IsZero() {
					return true
				}
				return edges[i].CreatedAt.Before(edges[j].CreatedAt)
			}
			if edges[i].Relation != edges[j].Relation {
				return edges[i].Relation < edges[j].Relation
			}
			if oi, oj := otherEndpoint(&edges[i], focus), otherEndpoint(&edges[j], focus); oi != oj {
				return oi < oj
			}
			return edges[i].UUID() < edges[j].UUID()
		})
	default: // ByUUID and any unrecognized mode.
		sort.SliceStable(edges, func(i, j int) bool {
			if edges[i].Relation != edges[j].Relation {
				return edges[i].Relation < edges[j].Relation
			}
			if oi, oj := otherEndpoint(&edges[i], focus), otherEndpoint(&edges[j], focus); oi != oj {
				return oi < oj
			}
			return edges[i].UUID() < edges[j].UUID()
		})
	}
}
