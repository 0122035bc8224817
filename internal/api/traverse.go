package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mkXultra/graphiti-mcp-server/internal/graphops"
	"github.com/mkXultra/graphiti-mcp-server/internal/traverse"
)

// Error codes specific to the paginated traversal protocol. These map
// 1:1 onto the sentinel errors returned by the traverse package.
const (
	ErrCodeCursorExpired   = "cursor_expired"
	ErrCodeInvalidCursor   = "invalid_cursor"
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeQueryMismatch   = "query_mismatch"
)

// TraverseHandler serves the paginated BFS traversal endpoint.
type TraverseHandler struct {
	svc *traverse.Service
	log *logrus.Logger
}

// NewTraverseHandler creates a TraverseHandler backed by the given service.
func NewTraverseHandler(svc *traverse.Service, log *logrus.Logger) *TraverseHandler {
	return &TraverseHandler{svc: svc, log: log}
}

type traverseRequest struct {
	StartNodeUUID string `json:"start_node_uuid"`
	Depth         *int   `json:"depth"`
	Cursor        string `json:"cursor"`
}

// Page handles POST /api/v1/graph/traverse_page, the resumable,
// budget-bounded companion to the existing single-shot /graph/traverse/:id.
func (h *TraverseHandler) Page(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	var req traverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())

		return
	}

	resp, err := h.svc.Traverse(c.Request.Context(), traverse.Request{
		TenantID:      tenantID,
		StartNodeUUID: req.StartNodeUUID,
		Depth:         req.Depth,
		CursorToken:   req.Cursor,
	})
	if err != nil {
		h.respondTraverseError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TraverseHandler) respondTraverseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, traverse.ErrCursorExpired):
		respondError(c, http.StatusGone, ErrCodeCursorExpired, "cursor expired")
	case errors.Is(err, traverse.ErrInvalidCursor):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidCursor, "invalid cursor")
	case errors.Is(err, traverse.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, ErrCodeSessionNotFound, "session not found")
	case errors.Is(err, traverse.ErrQueryMismatch):
		respondError(c, http.StatusConflict, ErrCodeQueryMismatch, "cursor does not match the original query")
	case errors.Is(err, traverse.ErrInvalidArgument):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	default:
		h.log.WithError(err).Error("traversing graph page")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

// GraphOpsHandler serves the two non-paginated adjacent operations:
// path enumeration and seed-set subgraph assembly, plus the raw
// entity-relations listing they are both built from.
type GraphOpsHandler struct {
	svc *graphops.Service
	log *logrus.Logger
}

// NewGraphOpsHandler creates a GraphOpsHandler backed by the given service.
func NewGraphOpsHandler(svc *graphops.Service, log *logrus.Logger) *GraphOpsHandler {
	return &GraphOpsHandler{svc: svc, log: log}
}

// EntityRelations handles GET /api/v1/graph/entities/:id/relations.
func (h *GraphOpsHandler) EntityRelations(c *gin.Context) {
	entityID := c.Param("id")
	if err := validatePathID(entityID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	facts, err := h.svc.GetEntityRelations(c.Request.Context(), tenantID, entityID)
	if err != nil {
		h.log.WithError(err).Error("getting entity relations")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"facts": facts})
}

type findPathsRequest struct {
	FromEntityUUID string `json:"from_entity_uuid"`
	ToEntityUUID   string `json:"to_entity_uuid"`
	MaxDepth       int    `json:"max_depth"`
	MaxPaths       int    `json:"max_paths"`
}

// FindPaths handles POST /api/v1/graph/find_paths.
func (h *GraphOpsHandler) FindPaths(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	var req findPathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())

		return
	}

	if err := validatePathID(req.FromEntityUUID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "from_entity_uuid: "+err.Error())

		return
	}

	if err := validatePathID(req.ToEntityUUID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "to_entity_uuid: "+err.Error())

		return
	}

	result, err := h.svc.FindPaths(c.Request.Context(), tenantID, req.FromEntityUUID, req.ToEntityUUID, req.MaxDepth, req.MaxPaths)
	if err != nil {
		h.log.WithError(err).Error("finding paths")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, result)
}

type buildSubgraphRequest struct {
	EntityUUIDs  []string `json:"entity_uuids"`
	IncludePaths bool     `json:"include_paths_between_entities"`
	MaxHop       int      `json:"max_hop"`
}

// BuildSubgraph handles POST /api/v1/graph/build_subgraph.
func (h *GraphOpsHandler) BuildSubgraph(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	var req buildSubgraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())

		return
	}

	result, err := h.svc.BuildSubgraph(c.Request.Context(), tenantID, req.EntityUUIDs, req.IncludePaths, req.MaxHop)
	if err != nil {
		h.log.WithError(err).Error("building subgraph")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, result)
}
