package staff

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"companysite/internal/logging"
	"companysite/internal/session"
	"companysite/internal/testutil"
	"companysite/internal/web"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, db, dir := setupTestService(t)
	h := NewHandler(svc, logging.Discard())

	r := gin.New()
	require.NoError(t, web.Install(r, svc.PhotoURL))
	r.Use(func(c *gin.Context) {
		session.Set(c, session.Admin("admin"))
		c.Next()
	})
	h.RegisterAdminRoutes(r.Group("/admin"))
	return r, db, dir
}

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

func TestCreateEmployee_RejectsExe(t *testing.T) {
	r, db, dir := setupTestRouter(t)

	req := testutil.PostMultipart(t, "/admin/employees/new",
		url.Values{"name": {"Ann"}, "position": {"Dev"}},
		testutil.File{Field: "photo", Name: "setup.exe", Content: []byte("MZ")},
	)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/employees/new", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Invalid image type. Allowed: png, jpg, jpeg, gif, webp"}, flashMessages(rr))

	var n int64
	db.Model(&Employee{}).Count(&n)
	assert.Zero(t, n)
	assert.Zero(t, countFiles(t, dir))
}

func TestCreateEmployee_Success(t *testing.T) {
	r, db, _ := setupTestRouter(t)

	req := testutil.PostMultipart(t, "/admin/employees/new",
		url.Values{"name": {"Ann"}, "position": {"Dev"}, "is_active": {"on"}, "sort_order": {"3"}},
		testutil.File{Field: "photo", Name: "ann.webp", Content: []byte("img")},
	)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/employees", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Employee created."}, flashMessages(rr))

	var e Employee
	require.NoError(t, db.First(&e).Error)
	assert.True(t, e.IsActive)
	assert.Equal(t, 3, e.SortOrder)
	assert.NotNil(t, e.PhotoFilename)
}

func TestEditMissingEmployee(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/employees/42/edit", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/admin/employees", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Employee not found."}, flashMessages(rr))
}

func TestListEmployeesRenders(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	require.NoError(t, db.Create(&Employee{Name: "Zed", Position: "Ops", IsActive: true}).Error)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/employees", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Zed")
}

func TestDeleteEmployee(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	e := Employee{Name: "Zed", Position: "Ops"}
	require.NoError(t, db.Create(&e).Error)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm("/admin/employees/"+itoa(e.ID)+"/delete", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []string{"Employee deleted."}, flashMessages(rr))
	var n int64
	db.Model(&Employee{}).Count(&n)
	assert.Zero(t, n)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
