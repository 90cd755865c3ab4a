// Package site serves the public marketing pages.
package site

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"companysite/internal/config"
	"companysite/internal/domain/catalog"
	"companysite/internal/domain/staff"
	"companysite/internal/domain/task"
	"companysite/internal/logging"
	"companysite/internal/web"
)

type ServiceLister interface {
	ListPublic(ctx context.Context) ([]catalog.Service, error)
	ListFeatured(ctx context.Context) ([]catalog.Service, error)
}

type EmployeeLister interface {
	ListActive(ctx context.Context) ([]staff.Employee, error)
}

type ProjectLister interface {
	ListDone(ctx context.Context) ([]task.Task, error)
}

type Handler struct {
	settings  config.Provider
	services  ServiceLister
	employees EmployeeLister
	projects  ProjectLister
	log       logging.Logger
}

func NewHandler(settings config.Provider, services ServiceLister, employees EmployeeLister, projects ProjectLister, log logging.Logger) *Handler {
	return &Handler{settings: settings, services: services, employees: employees, projects: projects, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Home)
	r.GET("/about", h.About)
	r.GET("/services", h.Services)
	r.GET("/projects", h.Projects)
}

// Home handles GET /
func (h *Handler) Home(c *gin.Context) {
	featured, err := h.services.ListFeatured(c.Request.Context())
	h.degrade(c, "featured services", err)
	web.Render(c, http.StatusOK, "index.html", gin.H{
		"Stats":    h.settings.Stats(),
		"Featured": featured,
	})
}

// About handles GET /about
func (h *Handler) About(c *gin.Context) {
	employees, err := h.employees.ListActive(c.Request.Context())
	h.degrade(c, "employees", err)
	web.Render(c, http.StatusOK, "about.html", gin.H{"Title": "About", "Employees": employees})
}

// Services handles GET /services
func (h *Handler) Services(c *gin.Context) {
	services, err := h.services.ListPublic(c.Request.Context())
	h.degrade(c, "services", err)
	web.Render(c, http.StatusOK, "services.html", gin.H{"Title": "Services", "Services": services})
}

// Projects handles GET /projects
func (h *Handler) Projects(c *gin.Context) {
	projects, err := h.projects.ListDone(c.Request.Context())
	h.degrade(c, "projects", err)
	web.Render(c, http.StatusOK, "projects.html", gin.H{"Title": "Projects", "Projects": projects})
}

// degrade logs a failed read. The page still renders with an empty list.
func (h *Handler) degrade(c *gin.Context, what string, err error) {
	if err != nil {
		h.log.Error(c.Request.Context(), "public page data unavailable", "data", what, "path", c.Request.URL.Path, "error", err)
	}
}
