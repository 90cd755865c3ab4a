package task

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"companysite/internal/domain/staff"
	"companysite/internal/logging"
	"companysite/internal/pkg/response"
	"companysite/internal/session"
	"companysite/internal/storage"
	"companysite/internal/web"
)

const (
	myPath    = "/my/tasks"
	adminPath = "/admin/tasks"
)

type EmployeeLister interface {
	List(ctx context.Context) ([]staff.Employee, error)
}

type Handler struct {
	service   *Service
	employees EmployeeLister
	log       logging.Logger
}

func NewHandler(service *Service, employees EmployeeLister, log logging.Logger) *Handler {
	return &Handler{service: service, employees: employees, log: log}
}

// RegisterEmployeeRoutes registers /my/* under a group gated for employees
// and admins.
func (h *Handler) RegisterEmployeeRoutes(r *gin.RouterGroup) {
	r.GET("/tasks", h.MyTasks)
	r.GET("/tasks/:id", h.MyTask)
	r.POST("/tasks/:id/start", h.Start)
	r.POST("/tasks/:id/complete", h.Complete)
	r.GET("/activity.json", h.ActivityJSON)
}

// RegisterAdminRoutes registers task administration under an admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/tasks")
	{
		g.GET("", h.List)
		g.GET("/new", h.NewForm)
		g.POST("/new", h.Create)
		g.GET("/:id/edit", h.EditForm)
		g.POST("/:id/edit", h.Update)
		g.POST("/:id/delete", h.Delete)
	}
}

// MyTasks handles GET /my/tasks
func (h *Handler) MyTasks(c *gin.Context) {
	id := session.Current(c)
	tasks, err := h.service.ListFor(c.Request.Context(), id)
	if err != nil {
		h.log.Error(c.Request.Context(), "list my tasks failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	web.Render(c, http.StatusOK, "my_tasks.html", gin.H{"Title": "My tasks", "Tasks": tasks})
}

// MyTask handles GET /my/tasks/:id
func (h *Handler) MyTask(c *gin.Context) {
	taskID, ok := parseID(c, myPath)
	if !ok {
		return
	}
	t, logs, err := h.service.GetForEmployee(c.Request.Context(), session.Current(c), taskID)
	if err != nil {
		h.flashLookup(c, err)
		response.Redirect(c, myPath)
		return
	}
	web.Render(c, http.StatusOK, "my_task_detail.html", gin.H{"Title": t.Title, "Task": t, "Logs": logs})
}

// Start handles POST /my/tasks/:id/start
func (h *Handler) Start(c *gin.Context) {
	h.transition(c, h.service.Start, "Task started.")
}

// Complete handles POST /my/tasks/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete, "Task completed.")
}

func (h *Handler) transition(c *gin.Context, fn func(context.Context, session.Identity, int64) (*Task, error), done string) {
	taskID, ok := parseID(c, myPath)
	if !ok {
		return
	}
	if _, err := fn(c.Request.Context(), session.Current(c), taskID); err != nil {
		h.flashLookup(c, err)
		response.Redirect(c, myPath)
		return
	}
	session.AddFlash(c, session.FlashSuccess, done)
	response.Redirect(c, myPath+"/"+c.Param("id"))
}

// ActivityJSON handles GET /my/activity.json
func (h *Handler) ActivityJSON(c *gin.Context) {
	chart, err := h.service.ActivityFor(c.Request.Context(), session.Current(c))
	if err != nil {
		h.log.Error(c.Request.Context(), "activity failed", "error", err)
		response.Error(c, http.StatusServiceUnavailable, response.CodeServerError)
		return
	}
	response.JSON(c, http.StatusOK, chart)
}

// List handles GET /admin/tasks
func (h *Handler) List(c *gin.Context) {
	filter := ParseFilter(c.Query("status"), c.Query("employee_id"))
	tasks, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error(c.Request.Context(), "list tasks failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	employees, _ := h.employees.List(c.Request.Context())
	web.Render(c, http.StatusOK, "admin_tasks.html", gin.H{
		"Tasks":     tasks,
		"Filter":    filter,
		"Statuses":  Statuses,
		"Employees": employees,
	})
}

// NewForm handles GET /admin/tasks/new
func (h *Handler) NewForm(c *gin.Context) {
	h.renderForm(c, &Task{Status: StatusTodo, Priority: PriorityNormal}, true)
}

// Create handles POST /admin/tasks/new
func (h *Handler) Create(c *gin.Context) {
	var form TaskForm
	h.bind(c, &form)

	_, err := h.service.Create(c.Request.Context(), form.Input(), uploadedFile(c, "attachment"))
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Task created.")
		response.Redirect(c, adminPath)
	case flashValidation(c, err):
		response.Redirect(c, adminPath+"/new")
	default:
		h.log.Error(c.Request.Context(), "create task failed", "error", err)
		session.AddFlash(c, session.FlashError, "Error creating task.")
		response.Redirect(c, adminPath)
	}
}

// EditForm handles GET /admin/tasks/:id/edit
func (h *Handler) EditForm(c *gin.Context) {
	id, ok := parseID(c, adminPath)
	if !ok {
		return
	}
	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.flashLookup(c, err)
		response.Redirect(c, adminPath)
		return
	}
	h.renderForm(c, t, false)
}

// Update handles POST /admin/tasks/:id/edit
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, adminPath)
	if !ok {
		return
	}
	var form TaskForm
	h.bind(c, &form)

	_, err := h.service.Update(c.Request.Context(), id, form.Input(), uploadedFile(c, "attachment"))
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Task updated.")
		response.Redirect(c, adminPath)
	case errors.Is(err, ErrTaskNotFound):
		h.flashLookup(c, err)
		response.Redirect(c, adminPath)
	case flashValidation(c, err):
		response.Redirect(c, adminPath+"/"+c.Param("id")+"/edit")
	default:
		h.log.Error(c.Request.Context(), "update task failed", "task_id", id, "error", err)
		session.AddFlash(c, session.FlashError, "Error updating task.")
		response.Redirect(c, adminPath)
	}
}

// Delete handles POST /admin/tasks/:id/delete
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, adminPath)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.flashLookup(c, err)
		response.Redirect(c, adminPath)
		return
	}
	session.AddFlash(c, session.FlashSuccess, "Task deleted.")
	response.Redirect(c, adminPath)
}

func (h *Handler) renderForm(c *gin.Context, t *Task, isNew bool) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		h.log.Warn(c.Request.Context(), "list employees for task form failed", "error", err)
	}
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format(dueDateLayout)
	}
	web.Render(c, http.StatusOK, "admin_task_form.html", gin.H{
		"Task":       t,
		"IsNew":      isNew,
		"DueDate":    due,
		"Employees":  employees,
		"Statuses":   Statuses,
		"Priorities": Priorities,
	})
}

func flashValidation(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, ErrTitleRequired):
		session.AddFlash(c, session.FlashError, "Title is required.")
	case errors.Is(err, ErrInvalidStatus):
		session.AddFlash(c, session.FlashError, "Invalid status.")
	case errors.Is(err, ErrInvalidPriority):
		session.AddFlash(c, session.FlashError, "Invalid priority.")
	case errors.Is(err, ErrInvalidDueDate):
		session.AddFlash(c, session.FlashError, "Invalid due date. Use YYYY-MM-DD.")
	case errors.Is(err, storage.ErrInvalidFileType):
		session.AddFlash(c, session.FlashError, "Invalid file type. Allowed: "+storage.AttachmentExtensions.String())
	case errors.Is(err, storage.ErrFileTooLarge):
		session.AddFlash(c, session.FlashError, "File is too large.")
	default:
		return false
	}
	return true
}

func (h *Handler) flashLookup(c *gin.Context, err error) {
	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrNotFoundOrNoAccess) {
		session.AddFlash(c, session.FlashError, "Task not found.")
		return
	}
	h.log.Error(c.Request.Context(), "load task failed", "error", err)
	session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
}

func parseID(c *gin.Context, back string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		session.AddFlash(c, session.FlashError, "Task not found.")
		response.Redirect(c, back)
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
