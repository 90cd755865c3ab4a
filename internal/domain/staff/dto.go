package staff

import (
	"strconv"
	"strings"
)

// EmployeeForm is the admin create/edit form.
type EmployeeForm struct {
	Name      string `form:"name"`
	Position  string `form:"position"`
	IsActive  string `form:"is_active"`
	SortOrder string `form:"sort_order"`
}

// Input is a normalized EmployeeForm.
type Input struct {
	Name      string
	Position  string
	IsActive  bool
	SortOrder int
}

func (f EmployeeForm) Input() Input {
	order, err := strconv.Atoi(strings.TrimSpace(f.SortOrder))
	if err != nil {
		order = 0
	}
	return Input{
		Name:      strings.TrimSpace(f.Name),
		Position:  strings.TrimSpace(f.Position),
		IsActive:  f.IsActive == "on",
		SortOrder: order,
	}
}

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Position = strings.TrimSpace(in.Position)
	return in
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Position) == "" {
		return ErrNameRequired
	}
	return nil
}
