package catalog

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

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, db, _ := setupTestService(t)
	h := NewHandler(svc, logging.Discard())

	r := gin.New()
	require.NoError(t, web.Install(r, svc.ImageURL))
	r.Use(func(c *gin.Context) {
		session.Set(c, session.Admin("admin"))
		c.Next()
	})
	h.RegisterAdminRoutes(r.Group("/admin"))
	return r, db
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

func TestCreateService_MissingTitle(t *testing.T) {
	r, db := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm("/admin/services/new", url.Values{"description": {"x"}}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/services/new", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Title is required."}, flashMessages(rr))

	var n int64
	db.Model(&Service{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateService_Success(t *testing.T) {
	r, db := setupTestRouter(t)

	req := testutil.PostMultipart(t, "/admin/services/new",
		url.Values{"title": {"Hosting"}, "description": {"**fast**"}, "featured": {"on"}, "is_active": {"on"}},
		testutil.File{Field: "image", Name: "h.png", Content: []byte("img")},
	)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/services", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Service created."}, flashMessages(rr))

	var s Service
	require.NoError(t, db.First(&s).Error)
	assert.True(t, s.Featured)
	assert.NotNil(t, s.ImageFilename)
}

func TestUpdateService_NotFound(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm("/admin/services/7/edit", url.Values{"title": {"x"}}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []string{"Service not found."}, flashMessages(rr))
}

func TestListAndDeleteService(t *testing.T) {
	r, db := setupTestRouter(t)
	s := Service{Title: "Consulting", IsActive: true}
	require.NoError(t, db.Create(&s).Error)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/services", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Consulting")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm("/admin/services/"+strconv.FormatInt(s.ID, 10)+"/delete", nil))
	assert.Equal(t, []string{"Service deleted."}, flashMessages(rr))
}
