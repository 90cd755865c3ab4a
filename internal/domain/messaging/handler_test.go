package messaging

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companysite/internal/config"
	"companysite/internal/logging"
	"companysite/internal/session"
	"companysite/internal/testutil"
	"companysite/internal/web"
)

func setupTestRouter(t *testing.T, settings *config.StaticProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _ := setupTestService(t, settings, new(mockSender))
	h := NewHandler(svc, logging.Discard())

	r := gin.New()
	require.NoError(t, web.Install(r, nil))
	r.Use(func(c *gin.Context) {
		session.Set(c, session.Admin("admin"))
		c.Next()
	})
	h.RegisterAdminRoutes(r.Group("/admin"))
	return r
}

func TestSendRendersWhatsAppLink(t *testing.T) {
	r := setupTestRouter(t, &config.StaticProvider{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm("/admin/messages", url.Values{
		"send_whatsapp": {"on"}, "phone": {"+1 (555) 010"}, "body": {"Hello"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "https://wa.me/1555010?text=Hello")
	assert.Contains(t, rr.Body.String(), "WhatsApp link generated.")
}

func TestSendWithoutPhone(t *testing.T) {
	r := setupTestRouter(t, &config.StaticProvider{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm("/admin/messages", url.Values{"send_whatsapp": {"on"}, "body": {"Hello"}}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Phone number is required for WhatsApp.")
	assert.NotContains(t, rr.Body.String(), "wa.me")
}

func TestSettingsPageMasksPassword(t *testing.T) {
	r := setupTestRouter(t, &config.StaticProvider{Mailer: config.MailSettings{Host: "smtp.example.com", Password: "hunter2"}})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/settings/email", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "smtp.example.com")
	assert.NotContains(t, rr.Body.String(), "hunter2")
}
