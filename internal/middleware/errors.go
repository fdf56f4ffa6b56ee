package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphconsole/internal/httputil"
	"github.com/persistorai/graphconsole/internal/metrics"
)

// respondError counts the rejection under the same error metric the API
// handlers use, then writes the shared JSON error body.
func respondError(c *gin.Context, code int, errCode, message string) {
	metrics.ErrorsTotal.WithLabelValues(errCode).Inc()
	httputil.RespondError(c, code, errCode, message)
}
