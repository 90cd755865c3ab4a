package middleware

import (
	"github.com/gin-gonic/gin"

	"companysite/internal/session"
)

// LoadIdentity decodes the session cookie once per request and stores the
// identity for handlers and templates. A bad or expired cookie is anonymous.
func LoadIdentity(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.Set(c, sessions.Load(c))
		c.Next()
	}
}
