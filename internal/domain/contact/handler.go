package contact

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"companysite/internal/logging"
	"companysite/internal/pkg/response"
	"companysite/internal/session"
	"companysite/internal/web"
)

const path = "/contact"

type Handler struct {
	service *Service
	log     logging.Logger
}

func NewHandler(service *Service, log logging.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET(path, h.Form)
	r.POST(path, h.Submit)
}

// Form handles GET /contact
func (h *Handler) Form(c *gin.Context) {
	web.Render(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact"})
}

// Submit handles POST /contact
func (h *Handler) Submit(c *gin.Context) {
	var form SubmitForm
	h.bind(c, &form)

	_, err := h.service.Submit(c.Request.Context(), form)
	switch {
	case err == nil:
		session.AddFlash(c, session.FlashSuccess, "Thank you! Your message has been sent.")
	case errors.Is(err, ErrFieldsRequired):
		session.AddFlash(c, session.FlashError, "All fields are required.")
	default:
		h.log.Error(c.Request.Context(), "store contact failed", "error", err)
		session.AddFlash(c, session.FlashError, "An error occurred while sending your message.")
	}
	response.Redirect(c, path)
}

// bind fills form from the request. A malformed body leaves fields empty,
// which validation then reports.
func (h *Handler) bind(c *gin.Context, form any) {
	if err := c.ShouldBind(form); err != nil {
		h.log.Warn(c.Request.Context(), "form bind failed", "path", c.Request.URL.Path, "error", err)
	}
}
