package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphconsole/internal/metrics"
)

// MaxBodySize caps request bodies at maxBytes. A declared Content-Length over
// the cap is refused up front; chunked bodies fail on read, which handlers
// detect with BodyTooLarge.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			RejectBody(c, maxBytes)

			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}

// BodyTooLarge reports whether err came from reading past the body cap, and
// the cap that was hit.
func BodyTooLarge(err error) (int64, bool) {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return 0, false
	}

	return mbe.Limit, true
}

// RejectBody answers 413 for a body over maxBytes.
func RejectBody(c *gin.Context, maxBytes int64) {
	metrics.BodyRejectedTotal.Inc()
	respondError(c, http.StatusRequestEntityTooLarge, "payload_too_large",
		fmt.Sprintf("request body exceeds %d bytes", maxBytes))
}
