package task

import (
	"time"

	"companysite/internal/domain/staff"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusBlocked    = "blocked"
)

var Statuses = []string{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var Priorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// Time log actions.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
)

type Task struct {
	ID                 int64           `gorm:"primaryKey" json:"id"`
	Title              string          `gorm:"size:255;not null" json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	EmployeeID         *int64          `gorm:"index" json:"employee_id,omitempty"`
	Employee           *staff.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	Status             string          `gorm:"size:20;not null;index" json:"status"`
	Priority           string          `gorm:"size:20;not null" json:"priority"`
	AttachmentFilename *string         `gorm:"size:255" json:"attachment_filename,omitempty"`
	ExternalLink       string          `gorm:"size:500" json:"external_link,omitempty"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) Attachment() string {
	if t.AttachmentFilename == nil {
		return ""
	}
	return *t.AttachmentFilename
}

func (t *Task) AssigneeName() string {
	if t.Employee == nil {
		return ""
	}
	return t.Employee.Name
}

// TimeLog is an append-only start/complete event.
type TimeLog struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	EmployeeID int64     `gorm:"not null;index" json:"employee_id"`
	TaskID     int64     `gorm:"not null;index" json:"task_id"`
	Task       *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Action     string    `gorm:"size:16;not null" json:"action"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (TimeLog) TableName() string {
	return "time_logs"
}

// Activity is the seven-day chart for /my/activity.json.
type Activity struct {
	Labels   []string `json:"labels"`
	Start    []int    `json:"start"`
	Complete []int    `json:"complete"`
}

// Filter narrows the admin task list. Zero values mean no filter.
type Filter struct {
	Status     string
	EmployeeID int64
}
