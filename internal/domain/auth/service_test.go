package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"companysite/internal/config"
	"companysite/internal/database"
	"companysite/internal/domain/staff"
	"companysite/internal/logging"
	"companysite/internal/session"
)

func init() {
	hashCost = bcrypt.MinCost
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name()), false)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&staff.Employee{}, &User{}, &AuthLogEntry{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func testSettings() *config.StaticProvider {
	return &config.StaticProvider{Admin: config.AdminCredentials{Username: "admin", Password: "s3cret"}}
}

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(NewUserRepository(db), NewLogRepository(db), testSettings(), logging.Discard()), db
}

func seedUser(t *testing.T, db *gorm.DB, username, password, role string, active bool, employeeID *int64) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := &User{Username: username, PasswordHash: hash, Role: role, IsActive: active, EmployeeID: employeeID}
	require.NoError(t, db.Create(u).Error)
	return u
}

func auditRows(t *testing.T, db *gorm.DB) []AuthLogEntry {
	t.Helper()
	var rows []AuthLogEntry
	require.NoError(t, db.Order("id").Find(&rows).Error)
	return rows
}

var desktopClient = ClientInfo{IP: "10.0.0.1", UserAgent: "Mozilla/5.0 (X11; Linux x86_64)"}

func TestSignIn_Admin(t *testing.T) {
	svc, db := setupTestService(t)

	id, err := svc.SignIn(context.Background(), "  admin ", "s3cret", desktopClient)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, "/admin", id.Landing())

	rows := auditRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, ActionLoginSuccess, rows[0].Action)
	assert.True(t, rows[0].IsAdmin)
	assert.Equal(t, DeviceDesktop, rows[0].DeviceType)
}

func TestSignIn_AdminWinsOverDatabaseUser(t *testing.T) {
	svc, db := setupTestService(t)
	seedUser(t, db, "admin", "s3cret", session.RoleUser, true, nil)

	id, err := svc.SignIn(context.Background(), "admin", "s3cret", desktopClient)
	require.NoError(t, err)
	assert.Equal(t, session.KindAdmin, id.Kind)
}

func TestSignIn_PasswordIsNotTrimmed(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.SignIn(context.Background(), "admin", " s3cret ", desktopClient)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_Employee(t *testing.T) {
	svc, db := setupTestService(t)
	emp := staff.Employee{Name: "Ann", Position: "Dev"}
	require.NoError(t, db.Create(&emp).Error)
	u := seedUser(t, db, "ann", "pw", session.RoleEmployee, true, &emp.ID)

	id, err := svc.SignIn(context.Background(), "ann", "pw", ClientInfo{UserAgent: "Mozilla/5.0 (iPhone)"})
	require.NoError(t, err)
	assert.True(t, id.IsEmployee())
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, emp.ID, id.EmployeeID)

	rows := auditRows(t, db)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].UserID)
	assert.Equal(t, u.ID, *rows[0].UserID)
	assert.Equal(t, DeviceMobile, rows[0].DeviceType)
}

func TestSignIn_Failures(t *testing.T) {
	svc, db := setupTestService(t)
	seedUser(t, db, "bob", "pw", session.RoleEmployee, true, nil)
	inactive := seedUser(t, db, "carl", "pw", session.RoleEmployee, false, nil)

	cases := []struct {
		name     string
		username string
		password string
		userID   *int64
	}{
		{"unknown user", "nobody", "pw", nil},
		{"wrong password", "bob", "nope", nil},
		{"inactive", "carl", "pw", &inactive.ID},
		{"blank", "", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, db.Where("1 = 1").Delete(&AuthLogEntry{}).Error)

			id, err := svc.SignIn(context.Background(), tc.username, tc.password, ClientInfo{})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.False(t, id.Authenticated())

			rows := auditRows(t, db)
			require.Len(t, rows, 1, "exactly one audit entry per attempt")
			assert.Equal(t, ActionLoginFailure, rows[0].Action)
			assert.Equal(t, DeviceUnknown, rows[0].DeviceType)
			if tc.userID != nil {
				require.NotNil(t, rows[0].UserID)
				assert.Equal(t, *tc.userID, *rows[0].UserID)
			}
		})
	}
}

type failingLogs struct{}

func (failingLogs) Create(context.Context, *AuthLogEntry) error {
	return errors.New("disk full")
}

func (failingLogs) List(context.Context, string, int) ([]AuthLogEntry, error) {
	return nil, nil
}

func (failingLogs) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, errors.New("disk full")
}

func TestSignIn_AuditFailureDoesNotChangeOutcome(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewUserRepository(db), failingLogs{}, testSettings(), logging.Discard())

	id, err := svc.SignIn(context.Background(), "admin", "s3cret", desktopClient)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
}

func TestSignOut_Audits(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	svc.SignOut(ctx, session.Identity{}, desktopClient)
	assert.Empty(t, auditRows(t, db))

	svc.SignOut(ctx, session.User(7, "bob", session.RoleUser, 0), desktopClient)
	rows := auditRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, ActionLogout, rows[0].Action)
	assert.False(t, rows[0].IsAdmin)
	require.NotNil(t, rows[0].UserID)
	assert.EqualValues(t, 7, *rows[0].UserID)
}

func TestActivity_DeviceFilter(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, _ = svc.SignIn(ctx, "admin", "s3cret", desktopClient)
	_, _ = svc.SignIn(ctx, "admin", "s3cret", ClientInfo{UserAgent: "Android"})
	_, _ = svc.SignIn(ctx, "admin", "bad", ClientInfo{})

	all, err := svc.Activity(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mobile, err := svc.Activity(ctx, DeviceMobile)
	require.NoError(t, err)
	require.Len(t, mobile, 1)

	ignored, err := svc.Activity(ctx, "toaster")
	require.NoError(t, err)
	assert.Len(t, ignored, 3)
}

func TestUserCRUD(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, UserInput{Username: "ann", Role: session.RoleEmployee})
	assert.ErrorIs(t, err, ErrCredentialsMissing)

	_, err = svc.CreateUser(ctx, UserInput{Username: "ann", Password: "pw", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	u, err := svc.CreateUser(ctx, UserInput{Username: "ann", Password: "pw", Role: session.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	assert.NotEqual(t, "pw", u.PasswordHash)

	_, err = svc.CreateUser(ctx, UserInput{Username: "ann", Password: "other", Role: session.RoleUser})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	oldHash := u.PasswordHash
	u, err = svc.UpdateUser(ctx, u.ID, UserInput{Username: "ann", Role: session.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, oldHash, u.PasswordHash, "blank password keeps the hash")
	assert.Equal(t, session.RoleUser, u.Role)

	u, err = svc.UpdateUser(ctx, u.ID, UserInput{Username: "ann", Password: "new", Role: session.RoleUser})
	require.NoError(t, err)
	assert.NoError(t, CheckPassword("new", u.PasswordHash))

	require.NoError(t, svc.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, u.ID), ErrUserNotFound)

	var n int64
	db.Model(&User{}).Count(&n)
	assert.Zero(t, n)
}

func TestEmployeeDeleteUnlinksUser(t *testing.T) {
	_, db := setupTestService(t)
	emp := staff.Employee{Name: "Ann", Position: "Dev"}
	require.NoError(t, db.Create(&emp).Error)
	u := seedUser(t, db, "ann", "pw", session.RoleEmployee, true, &emp.ID)

	require.NoError(t, db.Delete(&emp).Error)

	var got User
	require.NoError(t, db.First(&got, u.ID).Error)
	assert.Nil(t, got.EmployeeID)
}

func TestClassifyDevice(t *testing.T) {
	cases := map[string]string{
		"":                                     DeviceUnknown,
		"   ":                                  DeviceUnknown,
		"Mozilla/5.0 (Windows NT 10.0; Win64)": DeviceDesktop,
		"Mozilla/5.0 (iPad; CPU OS 17_0)":      DeviceMobile,
		"Opera/9.80 (J2ME/MIDP; Opera Mini/9)": DeviceMobile,
		"Mozilla/5.0 (Windows Phone 10.0)":     DeviceMobile,
		"curl/8.4.0":                           DeviceDesktop,
		"BlackBerry9700":                       DeviceMobile,
	}
	for ua, want := range cases {
		assert.Equal(t, want, ClassifyDevice(ua), ua)
	}
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/my/tasks/3", SafeNext("/my/tasks/3", "/"))
	assert.Equal(t, "/admin", SafeNext("//evil.example", "/admin"))
	assert.Equal(t, "/admin", SafeNext("https://evil.example", "/admin"))
	assert.Equal(t, "/", SafeNext("", "/"))
}

func TestUserForm_Input(t *testing.T) {
	in := UserForm{Username: " ann ", Password: " pw ", EmployeeID: "x"}.Input()
	assert.Equal(t, "ann", in.Username)
	assert.Equal(t, " pw ", in.Password)
	assert.Equal(t, session.RoleEmployee, in.Role)
	assert.Nil(t, in.EmployeeID)

	in = UserForm{EmployeeID: "4"}.Input()
	require.NotNil(t, in.EmployeeID)
	assert.EqualValues(t, 4, *in.EmployeeID)
}

func TestPruneActivity(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&AuthLogEntry{Action: ActionLoginSuccess, CreatedAt: now.AddDate(0, 0, -200)}).Error)
	require.NoError(t, db.Create(&AuthLogEntry{Action: ActionLoginSuccess, CreatedAt: now.AddDate(0, 0, -10)}).Error)

	n, err := svc.PruneActivity(ctx, 0, now)
	require.NoError(t, err)
	assert.Zero(t, n, "zero retention keeps everything")

	n, err = svc.PruneActivity(ctx, 180*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, auditRows(t, db), 1)
}
