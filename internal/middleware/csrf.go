package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"companysite/internal/logging"
)

// CSRF protects the HTML forms with gorilla/csrf. Paths under any of the
// exempt prefixes skip the check. Over plain HTTP the referer check is relaxed.
func CSRF(key []byte, secure bool, log logging.Logger, exempt ...string) gin.HandlerFunc {
	var failed http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Warn(r.Context(), "csrf rejected", "path", r.URL.Path, "reason", csrf.FailureReason(r))
		http.Error(w, "Forbidden - invalid form token. Reload the page and try again.", http.StatusForbidden)
	})
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(failed),
	)

	return func(c *gin.Context) {
		for _, prefix := range exempt {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		passed := false
		var next http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}
		protect(next).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
