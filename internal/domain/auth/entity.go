package auth

import (
	"time"

	"companysite/internal/domain/staff"
	"companysite/internal/session"
)

// Audit actions.
const (
	ActionLoginSuccess = "login_success"
	ActionLoginFailure = "login_failure"
	ActionLogout       = "logout"
)

// User is a database account. The administrator is configured, not stored.
type User struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	Username     string          `gorm:"size:150;not null;uniqueIndex" json:"username"`
	PasswordHash string          `gorm:"size:255;not null" json:"-"`
	Role         string          `gorm:"size:20;not null" json:"role"`
	IsActive     bool            `gorm:"not null" json:"is_active"`
	EmployeeID   *int64          `gorm:"index" json:"employee_id,omitempty"`
	Employee     *staff.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL" json:"employee,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Identity builds the session identity for an authenticated account.
func (u *User) Identity() session.Identity {
	var employeeID int64
	if u.EmployeeID != nil {
		employeeID = *u.EmployeeID
	}
	return session.User(u.ID, u.Username, u.Role, employeeID)
}

func (u *User) EmployeeName() string {
	if u.Employee == nil {
		return ""
	}
	return u.Employee.Name
}

// AuthLogEntry is one row of the append-only sign-in audit trail.
type AuthLogEntry struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Username   *string   `gorm:"size:150" json:"username,omitempty"`
	UserID     *int64    `gorm:"index" json:"user_id,omitempty"`
	IsAdmin    bool      `gorm:"not null" json:"is_admin"`
	Action     string    `gorm:"size:32;not null" json:"action"`
	IP         string    `gorm:"size:64" json:"ip"`
	UserAgent  string    `gorm:"size:512" json:"user_agent"`
	DeviceType string    `gorm:"size:16" json:"device_type"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (AuthLogEntry) TableName() string {
	return "auth_logs"
}

// ClientInfo describes the browser behind a sign-in attempt.
type ClientInfo struct {
	IP        string
	UserAgent string
}
