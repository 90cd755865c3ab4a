package middleware

import (
	"github.com/gin-gonic/gin"

	"companysite/internal/domain/auth"
	"companysite/internal/pkg/response"
	"companysite/internal/session"
	"companysite/internal/web"
)

// RequireAdmin lets only the configured administrator through. Everyone
// else is sent to sign-in, with a forbidden flash when already signed in.
func RequireAdmin() gin.HandlerFunc {
	return gate(session.Identity.IsAdmin)
}

// RequireEmployeeOrAdmin admits the administrator and employee accounts.
func RequireEmployeeOrAdmin() gin.HandlerFunc {
	return gate(func(id session.Identity) bool {
		return id.IsAdmin() || id.IsEmployee()
	})
}

func gate(allowed func(session.Identity) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := session.Current(c)
		if allowed(id) {
			c.Next()
			return
		}
		if id.Authenticated() {
			session.AddFlash(c, session.FlashError, web.MsgForbidden)
		} else {
			session.AddFlash(c, session.FlashWarning, web.MsgLoginRequired)
		}
		response.Redirect(c, auth.SignInURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}
