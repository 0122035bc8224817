// Package bfsengine implements the resumable BFS traversal state machine:
// one Advance call produces at most one budget-bounded page, consulting the
// edge orderer for a stable visitation order and the token budget to decide
// when to stop mid-frame.
package bfsengine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkXultra/graphiti-mcp-server/internal/edgeorder"
	"github.com/mkXultra/graphiti-mcp-server/internal/flatfmt"
	"github.com/mkXultra/graphiti-mcp-server/internal/models"
	"github.com/mkXultra/graphiti-mcp-server/internal/tokenbudget"
	"github.com/mkXultra/graphiti-mcp-server/internal/travsession"
)

// Store is the capability the BFS engine demands of its graph-store
// collaborator. Implementations may be swapped freely — the engine is
// polymorphic over this interface, not over any concrete store type.
type Store interface {
	GetNodeByUUID(ctx context.Context, tenantID, uuid string) (*models.Node, error)
	GetEdgesIncident(ctx context.Context, tenantID, uuid string) ([]models.Edge, error)
}

// NodeEntry is either a flattened node record or, when the store could not
// resolve a UUID, a terminal error placeholder — never both, never omitted.
type NodeEntry struct {
	flatfmt.NodeRecord
	Error string `json:"error,omitempty"`
}

// errorNode builds the terminal "not found" placeholder for a node UUID.
func errorNode(uuid string) NodeEntry {
	return NodeEntry{
		NodeRecord: flatfmt.NodeRecord{UUID: uuid},
		Error:      "Node not found",
	}
}

// Page is one page of traversal result: the cumulative-in-this-page node set
// and the ordered edge list emitted so far in this call.
type Page struct {
	Start string               `json:"start"`
	Nodes map[string]NodeEntry `json:"nodes"`
	Edges []flatfmt.EdgeRecord `json:"edges"`
}

func newPage(start string) *Page {
	return &Page{Start: start, Nodes: make(map[string]NodeEntry), Edges: make([]flatfmt.EdgeRecord, 0, 16)}
}

// clone makes a deep-enough copy of p for tentative budget evaluation: the
// nodes map and edges slice are copied so appending to the tentative copy
// never mutates the committed page.
func (p *Page) clone() *Page {
	cp := &Page{
		Start: p.Start,
		Nodes: make(map[string]NodeEntry, len(p.Nodes)+1),
		Edges: make([]flatfmt.EdgeRecord, len(p.Edges), len(p.Edges)+1),
	}

	for k, v := range p.Nodes {
		cp.Nodes[k] = v
	}

	copy(cp.Edges, p.Edges)

	return cp
}

// Advance runs the BFS state machine forward by exactly one page. tenantID
// scopes every store call. It mutates sess in place: the caller decides
// whether to persist it (has_more) or discard it (complete) — see the
// traverse package's pagination wrapper.
func Advance(
	ctx context.Context,
	tenantID string,
	sess *travsession.TraverseSession,
	store Store,
	budget *tokenbudget.Budget,
) (page *Page, hasMore bool, tokens int, err error) {
	page = newPage(sess.RootUUID)

	if len(sess.Visited) == 0 {
		sess.Visited = []string{sess.RootUUID}

		rootNode, ferr := store.GetNodeByUUID(ctx, tenantID, sess.RootUUID)
		if ferr != nil {
			logrus.WithError(ferr).WithField("node_uuid", sess.RootUUID).
				Warn("bfsengine: root node fetch failed, materializing error record")
			page.Nodes[sess.RootUUID] = errorNode(sess.RootUUID)
		} else {
			page.Nodes[sess.RootUUID] = NodeEntry{NodeRecord: flatfmt.FormatNode(rootNode)}
		}

		if sess.MaxDepth == 0 {
			tokens = tokenbudget.EstimateTokens(page)
			return page, false, tokens, nil
		}

		sess.Frontier = []travsession.Frame{{NodeUUID: sess.RootUUID, DepthRemaining: sess.MaxDepth, NextEdgeIndex: 0}}
	}

	visited := sess.VisitedSet()

	for len(sess.Frontier) > 0 {
		frame := sess.Frontier[0]
		sess.Frontier = sess.Frontier[1:]

		edges, ferr := store.GetEdgesIncident(ctx, tenantID, frame.NodeUUID)
		if ferr != nil {
			logrus.WithError(ferr).WithField("node_uuid", frame.NodeUUID).
				Warn("bfsengine: incident-edge fetch failed, treating as empty")
			edges = nil
		}

		edgeorder.Sort(edges, frame.NodeUUID, edgeorder.Mode(sess.EdgeOrdering))

		currentDepth := sess.MaxDepth - frame.DepthRemaining + 1

		for i := frame.NextEdgeIndex; i < len(edges); i++ {
			e := edges[i]

			other := e.Target
			if other == frame.NodeUUID {
				other = e.Source
			}

			order := sess.YieldedEdges
			edgeRec := flatfmt.FormatEdge(&e, currentDepth, order)

			if !visited[other] {
				tentative := page.clone()

				otherNode, nerr := store.GetNodeByUUID(ctx, tenantID, other)
				if nerr != nil {
					tentative.Nodes[other] = errorNode(other)
				} else {
					tentative.Nodes[other] = NodeEntry{NodeRecord: flatfmt.FormatNode(otherNode)}
				}

				tentative.Edges = append(tentative.Edges, edgeRec)

				est, fits := budget.CanAddEdge(tentative)
				if !fits {
					frame.NextEdgeIndex = i
					sess.Frontier = append([]travsession.Frame{frame}, sess.Frontier...)
					return page, true, est, nil
				}

				page.Nodes[other] = tentative.Nodes[other]
				page.Edges = append(page.Edges, edgeRec)
				tokens = est
				sess.YieldedEdges++
				visited[other] = true
				sess.Visited = append(sess.Visited, other)

				if frame.DepthRemaining > 1 {
					sess.Frontier = append(sess.Frontier, travsession.Frame{
						NodeUUID:       other,
						DepthRemaining: frame.DepthRemaining - 1,
						NextEdgeIndex:  0,
					})
				}

				continue
			}

			// other already visited: the edge is still observable, but
			// contributes no new node and no new frame.
			tentative := page.clone()
			tentative.Edges = append(tentative.Edges, edgeRec)

			est, fits := budget.CanAddEdge(tentative)
			if !fits {
				frame.NextEdgeIndex = i
				sess.Frontier = append([]travsession.Frame{frame}, sess.Frontier...)
				return page, true, est, nil
			}

			page.Edges = append(page.Edges, edgeRec)
			tokens = est
			sess.YieldedEdges++
		}
	}

	tokens = tokenbudget.EstimateTokens(page)
	return page, false, tokens, nil
}

// DefaultWallClockBudget is the default page-call timeout value. Neither
// Advance nor any caller in this module applies it: Advance runs until the
// frontier is empty or the token budget is spent, and it mutates sess as it
// goes.
const DefaultWallClockBudget = 30 * time.Second
