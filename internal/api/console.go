package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/graph"
	"github.com/persistorai/graphconsole/internal/models"
)

// ConsoleHandler serves query and projection endpoints.
type ConsoleHandler struct {
	svc ConsoleService
	log *logrus.Logger
}

// NewConsoleHandler creates a ConsoleHandler with the given service and logger.
func NewConsoleHandler(svc ConsoleService, log *logrus.Logger) *ConsoleHandler {
	return &ConsoleHandler{svc: svc, log: log}
}

// Cypher handles POST /console/cypher.
func (h *ConsoleHandler) Cypher(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBodyError(c, err, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	resp, err := h.svc.Query(c.Request.Context(), getSessionID(c), req)
	if err != nil {
		respondQueryError(c, h.log, err, "running query")

		return
	}

	c.JSON(http.StatusOK, resp)
}

// Graph handles GET /console/graph. An optional select query marks entities.
func (h *ConsoleHandler) Graph(c *gin.Context) {
	resp, err := h.svc.Graph(c.Request.Context(), getSessionID(c), c.Query("select"))
	if err != nil {
		respondQueryError(c, h.log, err, "projecting graph")

		return
	}

	c.JSON(http.StatusOK, resp)
}

// Init handles POST /console/init.
func (h *ConsoleHandler) Init(c *gin.Context) {
	var req models.InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBodyError(c, err, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	resp, err := h.svc.Init(c.Request.Context(), getSessionID(c), req)
	if err != nil {
		respondQueryError(c, h.log, err, "initialising session")

		return
	}

	c.JSON(http.StatusOK, resp)
}

// Rest handles POST /console/rest. The body is a REST-style result payload;
// ?full_row=true projects every column instead of only the first.
func (h *ConsoleHandler) Rest(c *gin.Context) {
	fullRow, err := parseBool(c.Query("full_row"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "full_row must be a boolean")

		return
	}

	payload, err := graph.ParseRestResult(c.Request.Body)
	if err != nil {
		respondBodyError(c, err, "invalid rest payload")

		return
	}

	c.JSON(http.StatusOK, h.svc.ProjectRest(payload, fullRow))
}

// Import handles POST /console/import. The body is a visualization snapshot.
func (h *ConsoleHandler) Import(c *gin.Context) {
	snap, err := graph.ParseSnapshot(c.Request.Body)
	if err != nil {
		respondBodyError(c, err, "invalid snapshot payload")

		return
	}

	res, err := h.svc.Import(c.Request.Context(), snap)
	if err != nil {
		respondQueryError(c, h.log, err, "importing snapshot")

		return
	}

	h.log.WithFields(logrus.Fields{
		"session_id":    getSessionID(c),
		"nodes":         res.NodesCreated,
		"relationships": res.RelationshipsCreated,
	}).Info("import")

	c.JSON(http.StatusCreated, res)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}

	return strconv.ParseBool(s)
}
