package task

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"companysite/internal/domain/staff"
	"companysite/internal/logging"
	"companysite/internal/session"
	"companysite/internal/testutil"
	"companysite/internal/web"
)

// setupTestRouter serves /my and /admin as identity.
func setupTestRouter(t *testing.T, identity *session.Identity) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, db, _ := setupTestService(t)
	employees := staff.NewService(staff.NewRepository(db), nil, logging.Discard())
	h := NewHandler(svc, employees, logging.Discard())

	r := gin.New()
	require.NoError(t, web.Install(r, svc.AttachmentURL))
	r.Use(func(c *gin.Context) {
		session.Set(c, *identity)
		c.Next()
	})
	h.RegisterEmployeeRoutes(r.Group("/my"))
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

func TestStartHandler(t *testing.T) {
	var id session.Identity
	r, db := setupTestRouter(t, &id)
	ann := seedEmployee(t, db, "Ann")
	bob := seedEmployee(t, db, "Bob")
	task := seedTask(t, db, "Deploy", StatusTodo, &ann.ID, nil)
	path := "/my/tasks/" + strconv.FormatInt(task.ID, 10)

	id = employeeIdentity(bob)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm(path+"/start", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/my/tasks", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Task not found."}, flashMessages(rr))

	id = employeeIdentity(ann)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm(path+"/start", nil))
	assert.Equal(t, path, rr.Header().Get("Location"))
	assert.Equal(t, []string{"Task started."}, flashMessages(rr))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Deploy")
	assert.Contains(t, rr.Body.String(), "start")
}

func TestMyTasksOnlyShowsOwn(t *testing.T) {
	var id session.Identity
	r, db := setupTestRouter(t, &id)
	ann := seedEmployee(t, db, "Ann")
	bob := seedEmployee(t, db, "Bob")
	seedTask(t, db, "Ann's task", StatusTodo, &ann.ID, nil)
	seedTask(t, db, "Bob's task", StatusTodo, &bob.ID, nil)

	id = employeeIdentity(ann)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/my/tasks", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ann&#39;s task")
	assert.NotContains(t, rr.Body.String(), "Bob&#39;s task")
}

func TestActivityJSON(t *testing.T) {
	var id session.Identity
	r, db := setupTestRouter(t, &id)
	ann := seedEmployee(t, db, "Ann")
	id = employeeIdentity(ann)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/my/activity.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string][]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body["labels"], 7)
	assert.Len(t, body["start"], 7)
	assert.Len(t, body["complete"], 7)
}

func TestAdminCreateTask_BadDueDate(t *testing.T) {
	id := session.Admin("admin")
	r, db := setupTestRouter(t, &id)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.PostForm("/admin/tasks/new", url.Values{"title": {"x"}, "due_date": {"tomorrow"}}))

	assert.Equal(t, "/admin/tasks/new", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Invalid due date. Use YYYY-MM-DD."}, flashMessages(rr))
	var n int64
	db.Model(&Task{}).Count(&n)
	assert.Zero(t, n)
}

func TestAdminListTasks_Filter(t *testing.T) {
	id := session.Admin("admin")
	r, db := setupTestRouter(t, &id)
	seedTask(t, db, "open one", StatusTodo, nil, nil)
	seedTask(t, db, "shipped one", StatusDone, nil, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/tasks?status=done", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "shipped one")
	assert.NotContains(t, rr.Body.String(), "open one")
}
