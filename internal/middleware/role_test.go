package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companysite/internal/pkg/jwt"
	"companysite/internal/session"
	"companysite/internal/web"
)

func flashMessages(rr *httptest.ResponseRecorder) []string {
	var out []string
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.FlashCookieName {
			out = nil
			for _, f := range session.DecodeFlashes(c.Value) {
				out = append(out, f.Message)
			}
		}
	}
	return out
}

func guardedRouter(t *testing.T, tokens *jwt.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(LoadIdentity(session.NewManager(tokens, false)))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/admin", RequireAdmin(), ok)
	r.GET("/my/tasks", RequireEmployeeOrAdmin(), ok)
	return r
}

func sessionCookie(t *testing.T, tokens *jwt.Service, id session.Identity) *http.Cookie {
	t.Helper()
	token, err := tokens.GenerateToken(jwt.Claims{
		Kind:       string(id.Kind),
		UserID:     id.UserID,
		Username:   id.Username,
		Role:       id.Role,
		EmployeeID: id.EmployeeID,
	})
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func TestGuards(t *testing.T) {
	tokens := jwt.New("test-secret", time.Hour)
	r := guardedRouter(t, tokens)

	admin := session.Admin("admin")
	employee := session.User(2, "emp", session.RoleEmployee, 7)
	plain := session.User(3, "plain", session.RoleUser, 0)

	tests := []struct {
		name     string
		path     string
		identity *session.Identity
		status   int
		location string
		flash    string
	}{
		{name: "anonymous admin", path: "/admin", status: http.StatusFound, location: "/signin?next=%2Fadmin", flash: web.MsgLoginRequired},
		{name: "admin admin", path: "/admin", identity: &admin, status: http.StatusOK},
		{name: "employee admin", path: "/admin", identity: &employee, status: http.StatusFound, location: "/signin?next=%2Fadmin", flash: web.MsgForbidden},
		{name: "anonymous tasks", path: "/my/tasks", status: http.StatusFound, location: "/signin?next=%2Fmy%2Ftasks", flash: web.MsgLoginRequired},
		{name: "employee tasks", path: "/my/tasks", identity: &employee, status: http.StatusOK},
		{name: "admin tasks", path: "/my/tasks", identity: &admin, status: http.StatusOK},
		{name: "plain user tasks", path: "/my/tasks", identity: &plain, status: http.StatusFound, location: "/signin?next=%2Fmy%2Ftasks", flash: web.MsgForbidden},
		{name: "plain user admin", path: "/admin", identity: &plain, status: http.StatusFound, location: "/signin?next=%2Fadmin", flash: web.MsgForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.identity != nil {
				req.AddCookie(sessionCookie(t, tokens, *tt.identity))
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rr.Header().Get("Location"))
			}
			if tt.flash != "" {
				assert.Equal(t, []string{tt.flash}, flashMessages(rr))
			}
		})
	}
}

func TestTamperedSessionIsAnonymous(t *testing.T) {
	r := guardedRouter(t, jwt.New("test-secret", time.Hour))
	forged := sessionCookie(t, jwt.New("other-secret", time.Hour), session.Admin("admin"))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(forged)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, []string{web.MsgLoginRequired}, flashMessages(rr))
}
