package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"companysite/internal/logging"
	"companysite/internal/pkg/response"
)

const WebhookTokenHeader = "X-Webhook-Token"

// WebhookToken guards integration endpoints with a shared secret sent in the
// X-Webhook-Token header or the token query parameter. The secret is read on
// every request, and an unset secret rejects everything.
func WebhookToken(secret func() string, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := secret()
		got := c.GetHeader(WebhookTokenHeader)
		if got == "" {
			got = c.Query("token")
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			reason := "invalid_token"
			if expected == "" {
				reason = "token_not_configured"
			}
			log.Warn(c.Request.Context(), "webhook rejected",
				"request_id", RequestID(c),
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"reason", reason,
			)
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
