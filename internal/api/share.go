package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/models"
)

// ShareHandler serves shared-graph endpoints.
type ShareHandler struct {
	svc ShareService
	log *logrus.Logger
}

// NewShareHandler creates a ShareHandler with the given service and logger.
func NewShareHandler(svc ShareService, log *logrus.Logger) *ShareHandler {
	return &ShareHandler{svc: svc, log: log}
}

// Create handles POST /console/share.
func (h *ShareHandler) Create(c *gin.Context) {
	var req models.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBodyError(c, err, "invalid request body")

		return
	}

	info, err := h.svc.Share(c.Request.Context(), getSessionID(c), req)
	if err != nil {
		respondStoreError(c, h.log, err, "sharing session")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "graph.share", "graph_id": info.ID}).Info("audit")

	c.JSON(http.StatusCreated, info)
}

// Get handles GET /console/share/:id.
func (h *ShareHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	info, err := h.svc.Load(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, h.log, err, "loading graph")

		return
	}

	c.JSON(http.StatusOK, info)
}

// Update handles PUT /console/share/:id.
func (h *ShareHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBodyError(c, err, "invalid request body")

		return
	}

	info, err := h.svc.UpdateShared(c.Request.Context(), id, req)
	if err != nil {
		respondStoreError(c, h.log, err, "updating graph")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "graph.update", "graph_id": id}).Info("audit")

	c.JSON(http.StatusOK, info)
}

// Delete handles DELETE /console/share/:id.
func (h *ShareHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.svc.DeleteShared(c.Request.Context(), id); err != nil {
		respondStoreError(c, h.log, err, "deleting graph")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "graph.delete", "graph_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}

// Replay handles POST /console/share/:id/replay.
func (h *ShareHandler) Replay(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	resp, err := h.svc.Replay(c.Request.Context(), getSessionID(c), id)
	if err != nil {
		if errors.Is(err, models.ErrGraphNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "graph not found")

			return
		}

		respondQueryError(c, h.log, err, "replaying graph")

		return
	}

	c.JSON(http.StatusOK, resp)
}
