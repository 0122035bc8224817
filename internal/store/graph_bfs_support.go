package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mkXultra/graphiti-mcp-server/internal/models"
)

// incidentEdgeLimit caps edges returned per direction for a single focus node
// in one page of BFS expansion.
const incidentEdgeLimit = 2000

// GetNodeByUUID fetches a single node by ID, returning models.ErrNodeNotFound
// if it does not exist. This is the BFS engine's "fetch root" primitive.
func (s *GraphStore) GetNodeByUUID(ctx context.Context, tenantID, nodeID string) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetching node: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	nodeSQL := `SELECT ` + nodeColumns + ` FROM kg_nodes WHERE tenant_id = current_setting('app.tenant_id')::uuid AND id = $1`
	row := tx.QueryRow(ctx, nodeSQL, nodeID)

	n, err := scanNode(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("scanning node: %w", err)
	}

	if err := s.decryptNode(ctx, tenantID, n); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing node fetch: %w", err)
	}

	return n, nil
}

// GetEdgesIncident returns the edges touching nodeID, in either direction,
// at most incidentEdgeLimit per direction.
// It never errors on a missing node — an absent node simply has no edges —
// so the caller (the BFS engine) can treat store errors here as
// "this frame contributed nothing" per the traversal engine's edge policy.
func (s *GraphStore) GetEdgesIncident(ctx context.Context, tenantID, nodeID string) ([]models.Edge, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetching incident edges: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	edgeSQL := `(SELECT ` + edgeColumns + `
		FROM kg_edges
		WHERE source = $1 AND tenant_id = current_setting('app.tenant_id')::uuid LIMIT $2)
		UNION ALL
		(SELECT ` + edgeColumns + `
		FROM kg_edges
		WHERE target = $1 AND tenant_id = current_setting('app.tenant_id')::uuid LIMIT $2)`

	rows, err := tx.Query(ctx, edgeSQL, nodeID, incidentEdgeLimit)
	if err != nil {
		return nil, fmt.Errorf("querying incident edges: %w", err)
	}
	defer rows.Close()

	edges, err := collectEdges(rows)
	if err != nil {
		return nil, fmt.Errorf("collecting incident edges: %w", err)
	}

	if err := s.decryptEdges(ctx, tenantID, edges); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing incident edge fetch: %w", err)
	}

	return edges, nil
}
