package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FlashCookieName = "site_flash"
	pendingKey      = "flash_pending"
	maxFlashes      = 10
)

// Flash categories used by the templates for styling.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "danger"
)

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// AddFlash queues a message for the next rendered page, which may be the
// current one or the target of a redirect.
func AddFlash(c *gin.Context, category, message string) {
	pending := queued(c)
	if len(pending) >= maxFlashes {
		pending = pending[1:]
	}
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(pendingKey, pending)
	writeFlashCookie(c, pending)
}

// Flashes returns and clears every queued message: those carried in from a
// previous redirect and those added during this request.
func Flashes(c *gin.Context) []Flash {
	out := queued(c)
	if len(out) > 0 {
		c.Set(pendingKey, []Flash{})
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(FlashCookieName, "", -1, "/", "", false, true)
	}
	return out
}

// queued returns the messages of this request, seeded once from the
// incoming cookie.
func queued(c *gin.Context) []Flash {
	if v, ok := c.Get(pendingKey); ok {
		if f, ok := v.([]Flash); ok {
			return f
		}
	}
	var seeded []Flash
	if raw, err := c.Cookie(FlashCookieName); err == nil && raw != "" {
		seeded = DecodeFlashes(raw)
	}
	if seeded == nil {
		seeded = []Flash{}
	}
	c.Set(pendingKey, seeded)
	return seeded
}

func writeFlashCookie(c *gin.Context, flashes []Flash) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookieName, base64.RawURLEncoding.EncodeToString(raw), 300, "/", "", false, true)
}

// DecodeFlashes parses a flash cookie value. Garbage yields nothing.
func DecodeFlashes(raw string) []Flash {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var out []Flash
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
