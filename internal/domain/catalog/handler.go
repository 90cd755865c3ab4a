package catalog

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"companysite/internal/logging"
	"companysite/internal/pkg/response"
	"companysite/internal/session"
	"companysite/internal/storage"
	"companysite/internal/web"
)

const listPath = "/admin/services"

type Handler struct {
	service *CatalogService
	log     logging.Logger
}

func NewHandler(service *CatalogService, log logging.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterAdminRoutes registers routes under an admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/services")
	{
		g.GET("", h.List)
		g.GET("/new", h.NewForm)
		g.POST("/new", h.Create)
		g.GET("/:id/edit", h.EditForm)
		g.POST("/:id/edit", h.Update)
		g.POST("/:id/delete", h.Delete)
	}
}

// List handles GET /admin/services
func (h *Handler) List(c *gin.Context) {
	services, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "list services failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	web.Render(c, http.StatusOK, "admin_services.html", gin.H{"Services": services})
}

// NewForm handles GET /admin/services/new
func (h *Handler) NewForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "admin_service_form.html", gin.H{"Service": &Service{IsActive: true}, "IsNew": true})
}

// Create handles POST /admin/services/new
func (h *Handler) Create(c *gin.Context) {
	var form ServiceForm
	h.bind(c, &form)

	_, err := h.service.Create(c.Request.Context(), form.Input(), uploadedFile(c, "image"))
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Service created.")
		response.Redirect(c, listPath)
	case h.flashValidation(c, err):
		response.Redirect(c, listPath+"/new")
	default:
		h.log.Error(c.Request.Context(), "create service failed", "error", err)
		session.AddFlash(c, session.FlashError, "Error creating service.")
		response.Redirect(c, listPath)
	}
}

// EditForm handles GET /admin/services/:id/edit
func (h *Handler) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.flashLookup(c, err)
		response.Redirect(c, listPath)
		return
	}
	web.Render(c, http.StatusOK, "admin_service_form.html", gin.H{"Service": s, "IsNew": false})
}

// Update handles POST /admin/services/:id/edit
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var form ServiceForm
	h.bind(c, &form)

	_, err := h.service.Update(c.Request.Context(), id, form.Input(), uploadedFile(c, "image"))
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Service updated.")
		response.Redirect(c, listPath)
	case errors.Is(err, ErrServiceNotFound):
		h.flashLookup(c, err)
		response.Redirect(c, listPath)
	case h.flashValidation(c, err):
		response.Redirect(c, listPath+"/"+c.Param("id")+"/edit")
	default:
		h.log.Error(c.Request.Context(), "update service failed", "service_id", id, "error", err)
		session.AddFlash(c, session.FlashError, "Error updating service.")
		response.Redirect(c, listPath)
	}
}

// Delete handles POST /admin/services/:id/delete
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			h.flashLookup(c, err)
		} else {
			h.log.Error(c.Request.Context(), "delete service failed", "service_id", id, "error", err)
			session.AddFlash(c, session.FlashError, "Error deleting service.")
		}
		response.Redirect(c, listPath)
		return
	}
	session.AddFlash(c, session.FlashSuccess, "Service deleted.")
	response.Redirect(c, listPath)
}

func (h *Handler) flashValidation(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, ErrTitleRequired):
		session.AddFlash(c, session.FlashError, "Title is required.")
	case errors.Is(err, storage.ErrInvalidFileType):
		session.AddFlash(c, session.FlashError, "Invalid image type. Allowed: "+storage.ImageExtensions.String())
	case errors.Is(err, storage.ErrFileTooLarge):
		session.AddFlash(c, session.FlashError, "Image is too large.")
	default:
		return false
	}
	return true
}

func (h *Handler) flashLookup(c *gin.Context, err error) {
	if errors.Is(err, ErrServiceNotFound) {
		session.AddFlash(c, session.FlashError, "Service not found.")
		return
	}
	h.log.Error(c.Request.Context(), "load service failed", "error", err)
	session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		session.AddFlash(c, session.FlashError, "Service not found.")
		response.Redirect(c, listPath)
		return 0, false
	}
	return id, true
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
