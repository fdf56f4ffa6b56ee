package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets the response headers every console endpoint carries.
// Responses depend on the console session, so caches must key on it.
// Strict-Transport-Security is only sent when the console is served over
// HTTPS, which is also when session cookies are marked secure.
func SecurityHeaders(https bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Cache-Control", "no-store")
		h.Add("Vary", "Cookie")
		h.Add("Vary", SessionHeader)

		if https {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		c.Next()
	}
}
