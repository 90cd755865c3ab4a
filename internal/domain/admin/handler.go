package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"companysite/internal/domain/auth"
	"companysite/internal/logging"
	"companysite/internal/session"
	"companysite/internal/web"
)

type Handler struct {
	service  *Service
	activity ActivityReader
	log      logging.Logger
}

func NewHandler(service *Service, activity ActivityReader, log logging.Logger) *Handler {
	return &Handler{service: service, activity: activity, log: log}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("", h.Dashboard)
	admin.GET("/activity", h.Activity)
}

// Dashboard handles GET /admin
func (h *Handler) Dashboard(c *gin.Context) {
	d := h.service.Dashboard(c.Request.Context())
	if d.Degraded {
		session.AddFlash(c, session.FlashWarning, web.MsgDataUnavailable)
	}
	web.Render(c, http.StatusOK, "admin_dashboard.html", gin.H{"Title": "Dashboard", "D": d})
}

// Activity handles GET /admin/activity
func (h *Handler) Activity(c *gin.Context) {
	device := c.Query("device")
	if !auth.IsDeviceType(device) {
		device = ""
	}
	entries, err := h.activity.Activity(c.Request.Context(), device)
	if err != nil {
		h.log.Error(c.Request.Context(), "load auth activity failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	web.Render(c, http.StatusOK, "admin_activity.html", gin.H{
		"Title":   "Activity",
		"Entries": entries,
		"Device":  device,
		"Devices": []string{auth.DeviceMobile, auth.DeviceDesktop, auth.DeviceUnknown},
	})
}
