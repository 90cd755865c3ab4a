// Package session carries the signed-in identity and one-shot flash messages
// between requests, both as browser cookies.
package session

type Kind string

const (
	KindAnonymous Kind = ""
	KindAdmin     Kind = "admin"
	KindUser      Kind = "user"
)

// Roles a database user can hold.
const (
	RoleEmployee = "employee"
	RoleUser     = "user"
)

// Identity is who the current request acts as. The configured admin has no
// database row, so only KindUser carries a UserID.
type Identity struct {
	Kind       Kind
	UserID     int64
	Username   string
	Role       string
	EmployeeID int64 // 0 when the account is not linked to an employee
}

func Admin(username string) Identity {
	return Identity{Kind: KindAdmin, Username: username}
}

func User(userID int64, username, role string, employeeID int64) Identity {
	return Identity{Kind: KindUser, UserID: userID, Username: username, Role: role, EmployeeID: employeeID}
}

func (i Identity) Authenticated() bool { return i.Kind != KindAnonymous }

func (i Identity) IsAdmin() bool { return i.Kind == KindAdmin }

// IsEmployee is true for employee accounts linked to an Employee row.
func (i Identity) IsEmployee() bool {
	return i.Kind == KindUser && i.Role == RoleEmployee && i.EmployeeID > 0
}

// Landing is the default page after sign-in.
func (i Identity) Landing() string {
	switch {
	case i.IsAdmin():
		return "/admin"
	case i.IsEmployee():
		return "/my/tasks"
	default:
		return "/"
	}
}
