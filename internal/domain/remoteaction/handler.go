package remoteaction

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"companysite/internal/logging"
	"companysite/internal/pkg/response"
	"companysite/internal/session"
	"companysite/internal/web"
)

const listPath = "/admin/actions"

type Handler struct {
	service *Service
	log     logging.Logger
}

func NewHandler(service *Service, log logging.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterAdminRoutes registers ledger pages under an admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/actions")
	{
		g.GET("", h.List)
		g.GET("/new", h.NewForm)
		g.POST("/new", h.Create)
		g.POST("/:id/complete", h.Complete)
	}
}

// RegisterWebhook mounts POST /mdm on a token-gated group.
func (h *Handler) RegisterWebhook(r *gin.RouterGroup) {
	r.POST("/mdm", h.Webhook)
}

// List handles GET /admin/actions
func (h *Handler) List(c *gin.Context) {
	actions, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "list actions failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	web.Render(c, http.StatusOK, "admin_actions.html", gin.H{"Actions": actions})
}

// NewForm handles GET /admin/actions/new
func (h *Handler) NewForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "admin_action_form.html", gin.H{"Tools": Tools})
}

// Create handles POST /admin/actions/new
func (h *Handler) Create(c *gin.Context) {
	var form ActionForm
	h.bind(c, &form)

	_, err := h.service.Record(c.Request.Context(), form.Input())
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Action recorded.")
		response.Redirect(c, listPath)
	case errors.Is(err, ErrActionRequired):
		session.AddFlash(c, session.FlashError, "Action is required.")
		response.Redirect(c, listPath+"/new")
	default:
		h.log.Error(c.Request.Context(), "record action failed", "error", err)
		session.AddFlash(c, session.FlashError, "Error recording action.")
		response.Redirect(c, listPath)
	}
}

// Complete handles POST /admin/actions/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil {
		err = h.service.Complete(c.Request.Context(), id)
	} else {
		err = ErrActionNotFound
	}

	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Action marked completed.")
	case errors.Is(err, ErrActionNotFound):
		session.AddFlash(c, session.FlashError, "Action not found.")
	default:
		h.log.Error(c.Request.Context(), "complete action failed", "action_id", id, "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	response.Redirect(c, listPath)
}

// Webhook handles POST /hooks/mdm
func (h *Handler) Webhook(c *gin.Context) {
	var p WebhookPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest)
		return
	}

	if _, err := h.service.Ingest(c.Request.Context(), p); err != nil {
		if errors.Is(err, ErrActionRequired) || errors.Is(err, ErrInvalidStatus) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest)
			return
		}
		h.log.Error(c.Request.Context(), "webhook ingest failed", "error", err)
		response.Error(c, http.StatusServiceUnavailable, response.CodeServerError)
		return
	}
	response.OK(c)
}

// bind fills form from the request. A malformed body leaves fields empty,
// which validation then reports.
func (h *Handler) bind(c *gin.Context, form any) {
	if err := c.ShouldBind(form); err != nil {
		h.log.Warn(c.Request.Context(), "form bind failed", "path", c.Request.URL.Path, "error", err)
	}
}
