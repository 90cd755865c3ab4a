package auth

import (
	"strconv"
	"strings"

	"companysite/internal/session"
)

type SignInForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// UserForm is the admin create/edit form for accounts.
type UserForm struct {
	Username   string `form:"username"`
	Password   string `form:"password"`
	Role       string `form:"role"`
	IsActive   string `form:"is_active"`
	EmployeeID string `form:"employee_id"`
}

type UserInput struct {
	Username   string
	Password   string
	Role       string
	IsActive   bool
	EmployeeID *int64
}

// Input normalizes the form. The password is taken verbatim.
func (f UserForm) Input() UserInput {
	in := UserInput{
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
		Role:     strings.TrimSpace(f.Role),
		IsActive: f.IsActive == "on",
	}
	if in.Role == "" {
		in.Role = session.RoleEmployee
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(f.EmployeeID), 10, 64); err == nil && id > 0 {
		in.EmployeeID = &id
	}
	return in
}

func (in UserInput) validate(requirePassword bool) error {
	if in.Username == "" || (requirePassword && in.Password == "") {
		return ErrCredentialsMissing
	}
	if in.Role != session.RoleEmployee && in.Role != session.RoleUser {
		return ErrInvalidRole
	}
	return nil
}
