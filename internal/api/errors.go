package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/httputil"
	"github.com/persistorai/graphconsole/internal/metrics"
	"github.com/persistorai/graphconsole/internal/middleware"
	"github.com/persistorai/graphconsole/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeInternalError   = "internal_error"
	ErrCodeQueryFailed     = "query_failed"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondBodyError answers a request body that could not be decoded. Bodies
// cut off by the size cap get 413, anything else 400 with message.
func respondBodyError(c *gin.Context, err error, message string) {
	if limit, ok := middleware.BodyTooLarge(err); ok {
		middleware.RejectBody(c, limit)

		return
	}

	respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, message)
}

// respondStoreError maps shared-graph store errors to HTTP responses.
func respondStoreError(c *gin.Context, log *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, models.ErrGraphNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "graph not found")
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "graph with this id already exists")
	case errors.Is(err, models.ErrInvalidGraphID), errors.Is(err, models.ErrTooLong):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		log.WithError(err).Error(action)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

// respondQueryError maps console query errors to HTTP responses. Statements
// the database rejects are reported back to the user verbatim.
func respondQueryError(c *gin.Context, log *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, models.ErrInvalidPayload):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case errors.Is(err, models.ErrQueryRejected):
		log.WithError(err).Debug(action)
		respondError(c, http.StatusBadRequest, ErrCodeQueryFailed, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, ErrCodeQueryFailed, "query timed out")
	default:
		log.WithError(err).Error(action)
		respondError(c, http.StatusBadGateway, ErrCodeInternalError, "graph database unavailable")
	}
}
