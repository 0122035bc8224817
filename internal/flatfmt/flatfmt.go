// Package flatfmt projects the internal Node/Edge models into the flat,
// embedding-free wire records the traversal engine emits to callers. No
// internal IDs, vector embeddings, or store-specific bookkeeping fields ever
// cross this boundary.
package flatfmt

import (
	"fmt"
	"time"

	"github.com/mkXultra/graphiti-mcp-server/internal/models"
)

// NodeRecord is the wire shape of a traversed node.
type NodeRecord struct {
	UUID       string         `json:"uuid"`
	Name       string         `json:"name"`
	Summary    string         `json:"summary"`
	Labels     []string       `json:"labels"`
	GroupID    string         `json:"group_id"`
	CreatedAt  *string        `json:"created_at"`
	Attributes map[string]any `json:"attributes"`
}

// EdgeRecord is the wire shape of a traversed edge.
type EdgeRecord struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Fact      string   `json:"fact"`
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Episodes  []string `json:"episodes"`
	CreatedAt *string  `json:"created_at"`
	ValidAt   *string  `json:"valid_at"`
	InvalidAt *string  `json:"invalid_at"`
	Depth     int      `json:"depth"`
	Order     int      `json:"order"`
}

func isoOrNil(t time.Time) *string {
	if t.IsZero() {
		return nil
	}

	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func isoPtrOrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}

	return isoOrNil(*t)
}

// FormatNode projects a Node into its wire record.
func FormatNode(n *models.Node) NodeRecord {
	attrs := n.Properties
	if attrs == nil {
		attrs = map[string]any{}
	}

	return NodeRecord{
		UUID:       n.ID,
		Name:       n.Label,
		Summary:    n.Summary,
		Labels:     n.LabelSet(),
		GroupID:    n.TenantID.String(),
		CreatedAt:  isoOrNil(n.CreatedAt),
		Attributes: attrs,
	}
}

// EdgeID synthesizes the wire identity for an edge observed at a given
// emission ordinal: "E:<source>:<target>:<ordinal>".
func EdgeID(source, target string, ordinal int) string {
	return fmt.Sprintf("E:%s:%s:%d", source, target, ordinal)
}

// FormatEdge projects an Edge into its wire record. depth is the traversal
// depth at which the edge was discovered (1-based, root's outgoing edges are
// depth 1); order is the edge's emission ordinal within the session.
func FormatEdge(e *models.Edge, depth, order int) EdgeRecord {
	episodes := e.Episodes
	if episodes == nil {
		episodes = []string{}
	}

	return EdgeRecord{
		ID:        EdgeID(e.Source, e.Target, order),
		Type:      e.Relation,
		Fact:      e.Fact,
		Source:    e.Source,
		Target:    e.Target,
		Episodes:  episodes,
		CreatedAt: isoOrNil(e.CreatedAt),
		ValidAt:   isoPtrOrNil(e.ValidAt),
		InvalidAt: isoPtrOrNil(e.InvalidAt),
		Depth:     depth,
		Order:     order,
	}
}
