package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companysite/internal/domain/auth"
	"companysite/internal/domain/contact"
	"companysite/internal/domain/remoteaction"
	"companysite/internal/logging"
	"companysite/internal/web"
)

var errDown = errors.New("db down")

type fixedCount struct {
	n   int64
	err error
}

func (f fixedCount) Count(context.Context) (int64, error)      { return f.n, f.err }
func (f fixedCount) CountUsers(context.Context) (int64, error) { return f.n, f.err }

type fakeTasks struct {
	fixedCount
	byStatus map[string]int64
}

func (f fakeTasks) CountByStatus(context.Context) (map[string]int64, error) {
	return f.byStatus, f.err
}

type fakeContacts struct {
	fixedCount
	latest []contact.Contact
	limit  *int
}

func (f fakeContacts) Latest(_ context.Context, limit int) ([]contact.Contact, error) {
	if f.limit != nil {
		*f.limit = limit
	}
	return f.latest, f.err
}

type fakeActions []remoteaction.AdminAction

func (f fakeActions) Latest(context.Context) ([]remoteaction.AdminAction, error) { return f, nil }

type fakeActivity struct {
	device  string
	entries []auth.AuthLogEntry
	err     error
}

func (f *fakeActivity) Activity(_ context.Context, device string) ([]auth.AuthLogEntry, error) {
	f.device = device
	return f.entries, f.err
}

func healthySources(limit *int) Sources {
	return Sources{
		Services:  fixedCount{n: 4},
		Employees: fixedCount{n: 3},
		Users:     fixedCount{n: 2},
		Tasks:     fakeTasks{fixedCount: fixedCount{n: 5}, byStatus: map[string]int64{"todo": 2, "done": 3}},
		Contacts: fakeContacts{
			fixedCount: fixedCount{n: 1},
			latest:     []contact.Contact{{Name: "Ann", Email: "ann@example.com", Message: "Hi"}},
			limit:      limit,
		},
		Actions: fakeActions{{Tool: "intune", Action: "wipe", Status: "initiated", Actor: "admin"}},
	}
}

func TestDashboard(t *testing.T) {
	var limit int
	d := NewService(healthySources(&limit), logging.Discard()).Dashboard(context.Background())

	assert.False(t, d.Degraded)
	assert.Equal(t, Counts{Contacts: 1, Services: 4, Employees: 3, Users: 2, Tasks: 5}, d.Counts)
	assert.Equal(t, int64(3), d.TasksByStatus["done"])
	assert.Len(t, d.LatestContacts, 1)
	assert.Len(t, d.LatestActions, 1)
	assert.Equal(t, latestContacts, limit)
}

func TestDashboardDegraded(t *testing.T) {
	src := healthySources(nil)
	src.Users = fixedCount{err: errDown}

	d := NewService(src, logging.Discard()).Dashboard(context.Background())

	assert.True(t, d.Degraded)
	assert.Zero(t, d.Counts.Users)
	assert.Equal(t, int64(4), d.Counts.Services, "other panels still load")
}

func setupTestRouter(t *testing.T, src Sources, activity ActivityReader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	require.NoError(t, web.Install(r, nil))
	h := NewHandler(NewService(src, logging.Discard()), activity, logging.Discard())
	h.RegisterRoutes(r.Group("/admin"))
	return r
}

func TestDashboardHandler(t *testing.T) {
	r := setupTestRouter(t, healthySources(nil), &fakeActivity{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ann@example.com")
	assert.Contains(t, rr.Body.String(), "wipe")
	assert.NotContains(t, rr.Body.String(), web.MsgDataUnavailable)
}

func TestDashboardHandlerDegraded(t *testing.T) {
	src := healthySources(nil)
	src.Contacts = fakeContacts{fixedCount: fixedCount{err: errDown}}
	r := setupTestRouter(t, src, &fakeActivity{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), web.MsgDataUnavailable)
}

func TestActivityHandler(t *testing.T) {
	name := "emp"
	tests := []struct {
		name   string
		query  string
		device string
	}{
		{name: "all", query: "", device: ""},
		{name: "mobile", query: "?device=mobile", device: auth.DeviceMobile},
		{name: "unknown filter ignored", query: "?device=tablet", device: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := &fakeActivity{entries: []auth.AuthLogEntry{{Username: &name, Action: auth.ActionLoginSuccess, DeviceType: auth.DeviceMobile}}}
			r := setupTestRouter(t, healthySources(nil), act)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/activity"+tt.query, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.device, act.device)
			assert.Contains(t, rr.Body.String(), "emp")
		})
	}
}

func TestActivityHandlerFailure(t *testing.T) {
	r := setupTestRouter(t, healthySources(nil), &fakeActivity{err: errDown})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/activity", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), web.MsgDataUnavailable)
	assert.Contains(t, rr.Body.String(), "No activity.")
}
