// Package traverse is the public entry point for cursor-paginated BFS
// traversal: it resolves an incoming request to a session (fresh or
// resumed), drives one page through the BFS engine, and packages the result
// with a cursor for the next page or a terminal "has_more: false" marker.
package traverse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mkXultra/graphiti-mcp-server/internal/bfsengine"
	"github.com/mkXultra/graphiti-mcp-server/internal/cursor"
	"github.com/mkXultra/graphiti-mcp-server/internal/edgeorder"
	"github.com/mkXultra/graphiti-mcp-server/internal/flatfmt"
	"github.com/mkXultra/graphiti-mcp-server/internal/metrics"
	"github.com/mkXultra/graphiti-mcp-server/internal/tokenbudget"
	"github.com/mkXultra/graphiti-mcp-server/internal/travsession"
)

// Error codes returned in the wire "error" field, per the cursor protocol
// and input validation taxonomy. These are sentinel errors so callers can
// use errors.Is to map them to transport-specific status codes.
var (
	ErrCursorExpired   = errors.New("CURSOR_EXPIRED")
	ErrInvalidCursor   = errors.New("INVALID_CURSOR")
	ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")
	ErrQueryMismatch   = errors.New("QUERY_MISMATCH")
	ErrInvalidArgument = errors.New("INVALID_ARGUMENT")
)

// MaxDepth is the hard ceiling on traversal depth (spec MAX_DEPTH).
const MaxDepth = 5

// Defaults for TTLs, mirroring spec DEFAULT_CURSOR_TTL / DEFAULT_SESSION_TTL.
const (
	DefaultCursorTTL  = 600 * time.Second
	DefaultSessionTTL = 3600 * time.Second
)

// CursorInfo is the wire shape of the page's cursor field.
type CursorInfo struct {
	HasMore   bool    `json:"has_more"`
	Token     string  `json:"token,omitempty"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// Usage is the wire shape of the page's usage field.
type Usage struct {
	EstimatedTokens int `json:"estimated_tokens"`
}

// Response is the full wire page returned by Traverse.
type Response struct {
	Start  string                         `json:"start"`
	Nodes  map[string]bfsengine.NodeEntry `json:"nodes"`
	Edges  []flatfmt.EdgeRecord           `json:"edges"`
	Cursor CursorInfo                     `json:"cursor"`
	Usage  Usage                          `json:"usage"`
}

// Service ties the session store, cursor codec, and BFS engine together into
// the pagination wrapper described by the traversal spec.
type Service struct {
	Sessions    *travsession.Store
	Cursors     *cursor.Codec
	Store       bfsengine.Store
	TokenLimit  int
	CursorTTL   time.Duration
	SessionTTL  time.Duration
}

// NewService constructs a Service with the given collaborators and
// defaults applied for zero-valued limits/TTLs.
func NewService(sessions *travsession.Store, codec *cursor.Codec, store bfsengine.Store) *Service {
	return &Service{
		Sessions:   sessions,
		Cursors:    codec,
		Store:      store,
		TokenLimit: tokenbudget.DefaultLimit,
		CursorTTL:  DefaultCursorTTL,
		SessionTTL: DefaultSessionTTL,
	}
}

// Request is the input to Traverse.
type Request struct {
	TenantID      string
	StartNodeUUID string
	Depth         *int
	CursorToken   string
}

// Traverse resolves cursor-or-fresh session state, advances one page via the
// BFS engine, and packages the response. Depth defaults to 1 when nil, per
// spec §6.
func (s *Service) Traverse(ctx context.Context, req Request) (*Response, error) {
	if req.CursorToken != "" {
		return s.continueSession(ctx, req)
	}

	return s.startSession(ctx, req)
}

func (s *Service) continueSession(ctx context.Context, req Request) (*Response, error) {
	payload, err := s.Cursors.Verify(req.CursorToken)
	if err != nil {
		if errors.Is(err, cursor.ErrExpired) {
			metrics.CursorVerifyTotal.WithLabelValues("expired").Inc()
			return nil, ErrCursorExpired
		}
		metrics.CursorVerifyTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCursor
	}
	metrics.CursorVerifyTotal.WithLabelValues("ok").Inc()

	sess := s.Sessions.Load(payload.SID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	if sess.QueryHash != payload.QH {
		return nil, ErrQueryMismatch
	}

	return s.advanceAndRespond(ctx, req.TenantID, payload.SID, sess, true)
}

func (s *Service) startSession(ctx context.Context, req Request) (*Response, error) {
	if req.StartNodeUUID == "" {
		return nil, fmt.Errorf("%w: start_node_uuid is required", ErrInvalidArgument)
	}

	depth := 1
	if req.Depth != nil {
		depth = *req.Depth
	}

	if depth < 0 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: depth must be between 0 and %d", ErrInvalidArgument, MaxDepth)
	}

	sid := uuid.NewString()
	now := time.Now()

	sess := &travsession.TraverseSession{
		RootUUID:      req.StartNodeUUID,
		MaxDepth:      depth,
		Strategy:      "bfs",
		EdgeOrdering:  string(edgeorder.ByUUID),
		QueryHash:     fmt.Sprintf("%s:%d", req.StartNodeUUID, depth),
		Frontier:      nil,
		Visited:       nil,
		YieldedEdges:  0,
		StartedAt:     now,
		ExpiresAt:     now.Add(s.SessionTTL),
		SchemaVersion: 1,
	}

	return s.advanceAndRespond(ctx, req.TenantID, sid, sess, false)
}

func (s *Service) advanceAndRespond(
	ctx context.Context,
	tenantID, sid string,
	sess *travsession.TraverseSession,
	wasContinuation bool,
) (*Response, error) {
	budget := tokenbudget.New(s.TokenLimit)

	page, hasMore, tokens, err := bfsengine.Advance(ctx, tenantID, sess, s.Store, budget)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Start: page.Start,
		Nodes: page.Nodes,
		Edges: page.Edges,
		Usage: Usage{EstimatedTokens: tokens},
	}

	hasMoreLabel := "false"
	if hasMore {
		hasMoreLabel = "true"
	}
	metrics.TraversePagesTotal.WithLabelValues(hasMoreLabel).Inc()
	metrics.TraversePageTokens.WithLabelValues(hasMoreLabel).Observe(float64(tokens))

	if hasMore {
		s.Sessions.Save(sid, sess)
		metrics.TraverseSessionsActive.Set(float64(s.Sessions.Len()))

		issued, ierr := s.Cursors.Issue(sid, sess.QueryHash, s.CursorTTL)
		if ierr != nil {
			return nil, fmt.Errorf("issuing cursor: %w", ierr)
		}
		metrics.CursorIssuedTotal.Inc()

		exp := issued.ExpiresAt.UTC().Format(time.RFC3339)
		resp.Cursor = CursorInfo{HasMore: true, Token: issued.Token, ExpiresAt: &exp}

		logrus.WithFields(logrus.Fields{
			"session_id":    sid,
			"query_hash":    sess.QueryHash,
			"yielded_edges": sess.YieldedEdges,
		}).Debug("traverse: page has more, session saved and cursor reissued")
	} else {
		if wasContinuation {
			s.Sessions.Delete(sid)
			metrics.TraverseSessionsActive.Set(float64(s.Sessions.Len()))
		}

		resp.Cursor = CursorInfo{HasMore: false}

		logrus.WithFields(logrus.Fields{
			"session_id":    sid,
			"query_hash":    sess.QueryHash,
			"yielded_edges": sess.YieldedEdges,
		}).Debug("traverse: traversal complete")
	}

	return resp, nil
}
