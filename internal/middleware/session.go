package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// SessionIDKey is the gin context key for the console session id.
	SessionIDKey = "session_id"

	// SessionCookie carries the session id for browser clients.
	SessionCookie = "graphconsole_session"

	// SessionHeader carries the session id for non-browser clients.
	SessionHeader = "X-Session-ID"

	// SessionPresentedKey is set when the client sent a well-formed session
	// id rather than being issued a fresh one.
	SessionPresentedKey = "session_presented"
)

// Session resolves the console session id from the header or cookie. A
// missing or malformed id is replaced with a fresh one, which is returned
// in both the cookie and the header.
func Session(log *logrus.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie) //nolint:errcheck // a missing cookie leaves id empty.
		}

		presented := true
		if _, err := uuid.Parse(id); err != nil {
			if id != "" {
				log.WithFields(logrus.Fields{
					"client_ip":  c.ClientIP(),
					"request_id": c.GetString(RequestIDKey),
				}).Debug("replacing malformed session id")
			}

			id = uuid.New().String()
			presented = false
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Header(SessionHeader, id)
		c.Set(SessionIDKey, id)
		c.Set(SessionPresentedKey, presented)
		c.Next()
	}
}
