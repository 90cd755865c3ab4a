package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned by the JSON endpoints.
const (
	CodeUnauthorized = "unauthorized"
	CodeBadRequest   = "bad_request"
	CodeServerError  = "server_error"
	CodeNotFound     = "not_found"
)

func JSON(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func OK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func Error(c *gin.Context, statusCode int, code string) {
	c.JSON(statusCode, gin.H{"error": code})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, details any) {
	c.JSON(statusCode, gin.H{"error": code, "details": details})
}

// Redirect answers a POST with 303 See Other and anything else with 302.
func Redirect(c *gin.Context, location string) {
	status := http.StatusFound
	if c.Request.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	c.Redirect(status, location)
}
