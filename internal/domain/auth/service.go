package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"companysite/internal/config"
	"companysite/internal/logging"
	"companysite/internal/session"
)

// Service signs people in and out and manages database accounts.
type Service struct {
	users    UserRepository
	logs     LogRepository
	settings config.Provider
	log      logging.Logger
}

func NewService(users UserRepository, logs LogRepository, settings config.Provider, log logging.Logger) *Service {
	return &Service{users: users, logs: logs, settings: settings, log: log}
}

// SignIn checks the configured administrator first, then database accounts.
// Every attempt writes exactly one audit entry.
func (s *Service) SignIn(ctx context.Context, username, password string, client ClientInfo) (session.Identity, error) {
	username = strings.TrimSpace(username)

	admin := s.settings.AdminCredentials()
	if matchesAdmin(admin, username, password) {
		s.audit(ctx, AuthLogEntry{Username: &username, IsAdmin: true, Action: ActionLoginSuccess}, client)
		s.log.Info(ctx, "admin signed in", "username", username)
		return session.Admin(username), nil
	}

	fail := AuthLogEntry{Username: &username, Action: ActionLoginFailure}
	if username == "" {
		s.audit(ctx, fail, client)
		return session.Identity{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.Error(ctx, "sign-in lookup failed", "username", username, "error", err)
		}
		s.audit(ctx, fail, client)
		return session.Identity{}, ErrInvalidCredentials
	}

	fail.UserID = &u.ID
	if !u.IsActive || CheckPassword(password, u.PasswordHash) != nil {
		s.audit(ctx, fail, client)
		return session.Identity{}, ErrInvalidCredentials
	}

	s.audit(ctx, AuthLogEntry{Username: &u.Username, UserID: &u.ID, Action: ActionLoginSuccess}, client)
	s.log.Info(ctx, "user signed in", "user_id", u.ID)
	return u.Identity(), nil
}

// SignOut records the logout of id. Anonymous sessions are not audited.
func (s *Service) SignOut(ctx context.Context, id session.Identity, client ClientInfo) {
	if !id.Authenticated() {
		return
	}
	entry := AuthLogEntry{Username: &id.Username, IsAdmin: id.IsAdmin(), Action: ActionLogout}
	if id.UserID > 0 {
		entry.UserID = &id.UserID
	}
	s.audit(ctx, entry, client)
}

// ActivityLimit caps the activity page.
const ActivityLimit = 200

// Activity lists recent audit entries, optionally for one device type.
// Unknown device values are ignored.
func (s *Service) Activity(ctx context.Context, device string) ([]AuthLogEntry, error) {
	if !IsDeviceType(device) {
		device = ""
	}
	return s.logs.List(ctx, device, ActivityLimit)
}

// PruneActivity drops audit entries older than retention.
func (s *Service) PruneActivity(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	n, err := s.logs.DeleteBefore(ctx, now.Add(-retention))
	if err != nil {
		return 0, err
	}
	s.log.Info(ctx, "auth log pruned", "deleted", n, "retention", retention)
	return n, nil
}

func (s *Service) audit(ctx context.Context, e AuthLogEntry, client ClientInfo) {
	e.IP = client.IP
	e.UserAgent = truncate(client.UserAgent, 512)
	e.DeviceType = ClassifyDevice(client.UserAgent)
	if err := s.logs.Create(ctx, &e); err != nil {
		s.log.Warn(ctx, "auth audit write failed", "action", e.Action, "error", err)
	}
}

func matchesAdmin(admin config.AdminCredentials, username, password string) bool {
	if admin.Username == "" || admin.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password))
	return userOK&passOK == 1
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     in.IsActive,
		EmployeeID:   in.EmployeeID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// UpdateUser changes the password only when a new one is supplied.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UserInput) (*User, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Username = in.Username
	u.Role = in.Role
	u.IsActive = in.IsActive
	u.EmployeeID = in.EmployeeID
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}
