package messaging

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"companysite/internal/logging"
	"companysite/internal/pkg/response"
	"companysite/internal/session"
	"companysite/internal/web"
)

const settingsPath = "/admin/settings/email"

type Handler struct {
	service *Service
	log     logging.Logger
}

func NewHandler(service *Service, log logging.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterAdminRoutes registers messaging pages under an admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/messages", h.ComposeForm)
	r.POST("/messages", h.Send)
	r.GET("/settings/email", h.SettingsForm)
	r.POST("/settings/email", h.SaveSettings)
}

// ComposeForm handles GET /admin/messages
func (h *Handler) ComposeForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "admin_messages.html", gin.H{"Form": Compose{SendEmail: true}})
}

// Send handles POST /admin/messages
func (h *Handler) Send(c *gin.Context) {
	var form ComposeForm
	h.bind(c, &form)
	in := form.Input()

	out := h.service.Dispatch(c.Request.Context(), in, uploadedFile(c, "attachment"))
	for _, n := range out.Notices {
		session.AddFlash(c, n.Category, n.Message)
	}
	web.Render(c, http.StatusOK, "admin_messages.html", gin.H{
		"Form":        in,
		"WhatsAppURL": out.WhatsAppURL,
	})
}

// SettingsForm handles GET /admin/settings/email
func (h *Handler) SettingsForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "admin_email_settings.html", gin.H{"Mail": h.service.Settings()})
}

// SaveSettings handles POST /admin/settings/email
func (h *Handler) SaveSettings(c *gin.Context) {
	var form SettingsForm
	h.bind(c, &form)
	ctx := c.Request.Context()

	if err := h.service.SaveSettings(ctx, form); err != nil {
		if errors.Is(err, ErrInvalidPort) {
			session.AddFlash(c, session.FlashError, "Port must be a number.")
		} else {
			h.log.Error(ctx, "save mail settings failed", "error", err)
			session.AddFlash(c, session.FlashError, "Could not save settings.")
		}
		response.Redirect(c, settingsPath)
		return
	}
	session.AddFlash(c, session.FlashSuccess, "Email settings saved.")

	if form.TestTo != "" {
		err := h.service.SendTest(ctx, form.TestTo)
		switch {
		case err == nil:
			session.AddFlash(c, session.FlashSuccess, "Test email sent.")
		case errors.Is(err, ErrNotConfigured):
			session.AddFlash(c, session.FlashWarning, "Email is not configured.")
		default:
			session.AddFlash(c, session.FlashWarning, "Email could not be sent.")
		}
	}
	response.Redirect(c, settingsPath)
}

func uploadedFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Filename == "" {
		return nil
	}
	return fh
}

// bind fills form from the request. A malformed body leaves fields empty,
// which validation then reports.
func (h *Handler) bind(c *gin.Context, form any) {
	if err := c.ShouldBind(form); err != nil {
		h.log.Warn(c.Request.Context(), "form bind failed", "path", c.Request.URL.Path, "error", err)
	}
}
