package task

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

const dueDateLayout = "2006-01-02"

type TaskForm struct {
	Title        string `form:"title"`
	Description  string `form:"description"`
	EmployeeID   string `form:"employee_id"`
	Status       string `form:"status"`
	Priority     string `form:"priority"`
	DueDate      string `form:"due_date"`
	ExternalLink string `form:"external_link"`
}

type Input struct {
	Title        string
	Description  string
	EmployeeID   *int64
	Status       string
	Priority     string
	DueDate      string
	ExternalLink string
}

func (f TaskForm) Input() Input {
	in := Input{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		Status:       strings.TrimSpace(f.Status),
		Priority:     strings.TrimSpace(f.Priority),
		DueDate:      strings.TrimSpace(f.DueDate),
		ExternalLink: strings.TrimSpace(f.ExternalLink),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(f.EmployeeID), 10, 64); err == nil && id > 0 {
		in.EmployeeID = &id
	}
	return in.normalized()
}

// normalized trims the text fields and fills the default status and priority.
func (in Input) normalized() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = strings.TrimSpace(in.Status)
	in.Priority = strings.TrimSpace(in.Priority)
	in.DueDate = strings.TrimSpace(in.DueDate)
	in.ExternalLink = strings.TrimSpace(in.ExternalLink)
	if in.Status == "" {
		in.Status = StatusTodo
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	return in
}

// validate checks the input and returns the parsed due date.
func (in Input) validate() (*time.Time, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !slices.Contains(Statuses, in.Status) {
		return nil, ErrInvalidStatus
	}
	if !slices.Contains(Priorities, in.Priority) {
		return nil, ErrInvalidPriority
	}
	if in.DueDate == "" {
		return nil, nil
	}
	d, err := time.Parse(dueDateLayout, in.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &d, nil
}

// ParseFilter reads the admin list query. Unknown statuses are ignored.
func ParseFilter(status, employeeID string) Filter {
	var f Filter
	if slices.Contains(Statuses, status) {
		f.Status = status
	}
	if id, err := strconv.ParseInt(employeeID, 10, 64); err == nil && id > 0 {
		f.EmployeeID = id
	}
	return f
}
