package staff

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

const listPath = "/admin/employees"

// Handler serves the admin employee pages.
type Handler struct {
	service *Service
	log     logging.Logger
}

func NewHandler(service *Service, log logging.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterAdminRoutes registers routes under an admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/employees")
	{
		g.GET("", h.List)
		g.GET("/new", h.NewForm)
		g.POST("/new", h.Create)
		g.GET("/:id/edit", h.EditForm)
		g.POST("/:id/edit", h.Update)
		g.POST("/:id/delete", h.Delete)
	}
}

// List handles GET /admin/employees
func (h *Handler) List(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "list employees failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	web.Render(c, http.StatusOK, "admin_employees.html", gin.H{"Employees": employees})
}

// NewForm handles GET /admin/employees/new
func (h *Handler) NewForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "admin_employee_form.html", gin.H{"Employee": &Employee{IsActive: true}, "IsNew": true})
}

// Create handles POST /admin/employees/new
func (h *Handler) Create(c *gin.Context) {
	var form EmployeeForm
	h.bind(c, &form)

	_, err := h.service.Create(c.Request.Context(), form.Input(), uploadedFile(c, "photo"))
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Employee created.")
		response.Redirect(c, listPath)
	case h.flashValidation(c, err):
		response.Redirect(c, listPath+"/new")
	default:
		h.log.Error(c.Request.Context(), "create employee failed", "error", err)
		session.AddFlash(c, session.FlashError, "Error creating employee.")
		response.Redirect(c, listPath)
	}
}

// EditForm handles GET /admin/employees/:id/edit
func (h *Handler) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.flashLookup(c, err)
		response.Redirect(c, listPath)
		return
	}
	web.Render(c, http.StatusOK, "admin_employee_form.html", gin.H{"Employee": e, "IsNew": false})
}

// Update handles POST /admin/employees/:id/edit
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var form EmployeeForm
	h.bind(c, &form)

	_, err := h.service.Update(c.Request.Context(), id, form.Input(), uploadedFile(c, "photo"))
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Employee updated.")
		response.Redirect(c, listPath)
	case errors.Is(err, ErrEmployeeNotFound):
		h.flashLookup(c, err)
		response.Redirect(c, listPath)
	case h.flashValidation(c, err):
		response.Redirect(c, listPath+"/"+c.Param("id")+"/edit")
	default:
		h.log.Error(c.Request.Context(), "update employee failed", "employee_id", id, "error", err)
		session.AddFlash(c, session.FlashError, "Error updating employee.")
		response.Redirect(c, listPath)
	}
}

// Delete handles POST /admin/employees/:id/delete
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			h.flashLookup(c, err)
		} else {
			h.log.Error(c.Request.Context(), "delete employee failed", "employee_id", id, "error", err)
			session.AddFlash(c, session.FlashError, "Error deleting employee.")
		}
		response.Redirect(c, listPath)
		return
	}
	session.AddFlash(c, session.FlashSuccess, "Employee deleted.")
	response.Redirect(c, listPath)
}

func (h *Handler) flashValidation(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, ErrNameRequired):
		session.AddFlash(c, session.FlashError, "Name and position are required.")
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
	if errors.Is(err, ErrEmployeeNotFound) {
		session.AddFlash(c, session.FlashError, "Employee not found.")
		return
	}
	h.log.Error(c.Request.Context(), "load employee failed", "error", err)
	session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		session.AddFlash(c, session.FlashError, "Employee not found.")
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
