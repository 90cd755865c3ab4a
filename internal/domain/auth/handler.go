package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"companysite/internal/domain/staff"
	"companysite/internal/logging"
	"companysite/internal/pkg/response"
	"companysite/internal/session"
	"companysite/internal/web"
)

const (
	SignInPath = "/signin"
	usersPath  = "/admin/users"
)

// EmployeeLister feeds the employee picker on the user form.
type EmployeeLister interface {
	List(ctx context.Context) ([]staff.Employee, error)
}

type Handler struct {
	service   *Service
	sessions  *session.Manager
	employees EmployeeLister
	log       logging.Logger
}

func NewHandler(service *Service, sessions *session.Manager, employees EmployeeLister, log logging.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, employees: employees, log: log}
}

// RegisterRoutes registers sign-in, logout and the legacy login URLs.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET(SignInPath, h.SignInForm)
	r.POST(SignInPath, h.SignIn)
	r.GET("/logout", h.Logout)
	r.GET("/login", h.LegacyLogin)
	r.GET("/admin/login", h.LegacyLogin)
}

// RegisterAdminRoutes registers user administration under an admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/users")
	{
		g.GET("", h.ListUsers)
		g.GET("/new", h.NewUserForm)
		g.POST("/new", h.CreateUser)
		g.GET("/:id/edit", h.EditUserForm)
		g.POST("/:id/edit", h.UpdateUser)
		g.POST("/:id/delete", h.DeleteUser)
	}
}

// SafeNext returns next when it is a local path, fallback otherwise.
func SafeNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}

// SignInURL is the sign-in page that returns to next afterwards.
func SignInURL(next string) string {
	if next == "" {
		return SignInPath
	}
	return SignInPath + "?next=" + url.QueryEscape(next)
}

func clientInfo(c *gin.Context) ClientInfo {
	return ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// SignInForm handles GET /signin
func (h *Handler) SignInForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "signin.html", gin.H{"Title": "Sign in", "Next": c.Query("next")})
}

// SignIn handles POST /signin
func (h *Handler) SignIn(c *gin.Context) {
	var form SignInForm
	h.bind(c, &form)
	if form.Next == "" {
		form.Next = c.Query("next")
	}

	id, err := h.service.SignIn(c.Request.Context(), form.Username, form.Password, clientInfo(c))
	if err != nil {
		session.AddFlash(c, session.FlashError, "Invalid credentials.")
		web.Render(c, http.StatusOK, "signin.html", gin.H{
			"Title":    "Sign in",
			"Next":     SafeNext(form.Next, ""),
			"Username": strings.TrimSpace(form.Username),
		})
		return
	}

	if err := h.sessions.Save(c, id); err != nil {
		h.log.Error(c.Request.Context(), "session save failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
		response.Redirect(c, SignInPath)
		return
	}

	session.AddFlash(c, session.FlashSuccess, "Logged in successfully.")
	response.Redirect(c, SafeNext(form.Next, id.Landing()))
}

// Logout handles GET /logout
func (h *Handler) Logout(c *gin.Context) {
	h.service.SignOut(c.Request.Context(), session.Current(c), clientInfo(c))
	h.sessions.Clear(c)
	session.AddFlash(c, session.FlashInfo, "Logged out.")
	response.Redirect(c, "/")
}

// LegacyLogin handles GET /login and /admin/login
func (h *Handler) LegacyLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, SignInURL(SafeNext(c.Query("next"), "")))
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "list users failed", "error", err)
		session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
	}
	web.Render(c, http.StatusOK, "admin_users.html", gin.H{"Users": users})
}

// NewUserForm handles GET /admin/users/new
func (h *Handler) NewUserForm(c *gin.Context) {
	h.renderUserForm(c, &User{Role: session.RoleEmployee, IsActive: true}, true)
}

// CreateUser handles POST /admin/users/new
func (h *Handler) CreateUser(c *gin.Context) {
	var form UserForm
	h.bind(c, &form)

	_, err := h.service.CreateUser(c.Request.Context(), form.Input())
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "User created.")
		response.Redirect(c, usersPath)
	case flashUserValidation(c, err):
		response.Redirect(c, usersPath+"/new")
	default:
		h.log.Error(c.Request.Context(), "create user failed", "error", err)
		session.AddFlash(c, session.FlashError, "Error creating user.")
		response.Redirect(c, usersPath)
	}
}

// EditUserForm handles GET /admin/users/:id/edit
func (h *Handler) EditUserForm(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.flashUserLookup(c, err)
		response.Redirect(c, usersPath)
		return
	}
	h.renderUserForm(c, u, false)
}

// UpdateUser handles POST /admin/users/:id/edit
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var form UserForm
	h.bind(c, &form)

	_, err := h.service.UpdateUser(c.Request.Context(), id, form.Input())
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "User updated.")
		response.Redirect(c, usersPath)
	case errors.Is(err, ErrUserNotFound):
		h.flashUserLookup(c, err)
		response.Redirect(c, usersPath)
	case flashUserValidation(c, err):
		response.Redirect(c, usersPath+"/"+c.Param("id")+"/edit")
	default:
		h.log.Error(c.Request.Context(), "update user failed", "user_id", id, "error", err)
		session.AddFlash(c, session.FlashError, "Error updating user.")
		response.Redirect(c, usersPath)
	}
}

// DeleteUser handles POST /admin/users/:id/delete
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		h.flashUserLookup(c, err)
		response.Redirect(c, usersPath)
		return
	}
	session.AddFlash(c, session.FlashSuccess, "User deleted.")
	response.Redirect(c, usersPath)
}

func (h *Handler) renderUserForm(c *gin.Context, u *User, isNew bool) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		h.log.Warn(c.Request.Context(), "list employees for user form failed", "error", err)
	}
	web.Render(c, http.StatusOK, "admin_user_form.html", gin.H{
		"User":      u,
		"IsNew":     isNew,
		"Employees": employees,
		"Roles":     []string{session.RoleEmployee, session.RoleUser},
	})
}

func flashUserValidation(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, ErrCredentialsMissing):
		session.AddFlash(c, session.FlashError, "Username and password are required.")
	case errors.Is(err, ErrUsernameTaken):
		session.AddFlash(c, session.FlashError, "Username already exists.")
	case errors.Is(err, ErrInvalidRole):
		session.AddFlash(c, session.FlashError, "Invalid role.")
	default:
		return false
	}
	return true
}

func (h *Handler) flashUserLookup(c *gin.Context, err error) {
	if errors.Is(err, ErrUserNotFound) {
		session.AddFlash(c, session.FlashError, "User not found.")
		return
	}
	h.log.Error(c.Request.Context(), "load user failed", "error", err)
	session.AddFlash(c, session.FlashError, web.MsgDataUnavailable)
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		session.AddFlash(c, session.FlashError, "User not found.")
		response.Redirect(c, usersPath)
		return 0, false
	}
	return id, true
}

// bind fills form from the request. A malformed body leaves fields empty,
// which validation then reports.
func (h *Handler) bind(c *gin.Context, form any) {
	if err := c.ShouldBind(form); err != nil {
		h.log.Warn(c.Request.Context(), "form bind failed", "path", c.Request.URL.Path, "error", err)
	}
}
