package task

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"companysite/internal/logging"
	"companysite/internal/session"
	"companysite/internal/storage"
)

// ActivityDays is the width of the activity chart.
const ActivityDays = 7

type Service struct {
	repo    Repository
	uploads *storage.Uploader
	log     logging.Logger
	now     func() time.Time
}

func NewService(repo Repository, uploads *storage.Uploader, log logging.Logger) *Service {
	return &Service{repo: repo, uploads: uploads, log: log, now: time.Now}
}

func (s *Service) AttachmentURL(key string) string {
	return s.uploads.URL(key)
}

// owned loads a task the identity may act on. Admins see every task.
func (s *Service) owned(ctx context.Context, id session.Identity, taskID int64) (*Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrNotFoundOrNoAccess
		}
		return nil, err
	}
	if id.IsAdmin() {
		return t, nil
	}
	if !id.IsEmployee() || t.EmployeeID == nil || *t.EmployeeID != id.EmployeeID {
		return nil, ErrNotFoundOrNoAccess
	}
	return t, nil
}

func (s *Service) Start(ctx context.Context, id session.Identity, taskID int64) (*Task, error) {
	return s.transition(ctx, id, taskID, ActionStart, StatusInProgress)
}

func (s *Service) Complete(ctx context.Context, id session.Identity, taskID int64) (*Task, error) {
	return s.transition(ctx, id, taskID, ActionComplete, StatusDone)
}

func (s *Service) transition(ctx context.Context, id session.Identity, taskID int64, action, status string) (*Task, error) {
	t, err := s.owned(ctx, id, taskID)
	if err != nil {
		return nil, err
	}
	// a time log needs an employee
	if t.EmployeeID == nil {
		return nil, ErrNotFoundOrNoAccess
	}
	if err := s.repo.Transition(ctx, t, action, status); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "task "+action, "task_id", t.ID, "employee_id", *t.EmployeeID)
	return t, nil
}

// ListForEmployee returns an employee's tasks in work order.
func (s *Service) ListForEmployee(ctx context.Context, employeeID int64) ([]Task, error) {
	return s.repo.ListForEmployee(ctx, employeeID)
}

// ListFor returns what id should see on /my/tasks: admins get every task.
func (s *Service) ListFor(ctx context.Context, id session.Identity) ([]Task, error) {
	if id.IsAdmin() {
		return s.repo.ListForEmployee(ctx, 0)
	}
	if !id.IsEmployee() {
		return nil, nil
	}
	return s.repo.ListForEmployee(ctx, id.EmployeeID)
}

// GetForEmployee returns a task with its time logs, newest first.
func (s *Service) GetForEmployee(ctx context.Context, id session.Identity, taskID int64) (*Task, []TimeLog, error) {
	t, err := s.owned(ctx, id, taskID)
	if err != nil {
		return nil, nil, err
	}
	logs, err := s.repo.TimeLogs(ctx, t.ID)
	if err != nil {
		return nil, nil, err
	}
	return t, logs, nil
}

// Activity counts start and complete events for the UTC days
// today-6 through today. employeeID 0 counts everyone.
func (s *Service) Activity(ctx context.Context, employeeID int64, now time.Time) (Activity, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(ActivityDays - 1))
	to := today.AddDate(0, 0, 1)

	out := Activity{
		Labels:   make([]string, ActivityDays),
		Start:    make([]int, ActivityDays),
		Complete: make([]int, ActivityDays),
	}
	for i := range ActivityDays {
		out.Labels[i] = from.AddDate(0, 0, i).Format(dueDateLayout)
	}

	logs, err := s.repo.LogsBetween(ctx, employeeID, from, to)
	if err != nil {
		return out, err
	}
	for _, l := range logs {
		at := l.CreatedAt.UTC()
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		i := int(day.Sub(from).Hours() / 24)
		if i < 0 || i >= ActivityDays {
			continue
		}
		switch l.Action {
		case ActionStart:
			out.Start[i]++
		case ActionComplete:
			out.Complete[i]++
		}
	}
	return out, nil
}

// ActivityFor is Activity scoped to what id may see.
func (s *Service) ActivityFor(ctx context.Context, id session.Identity) (Activity, error) {
	var employeeID int64
	if !id.IsAdmin() {
		employeeID = id.EmployeeID
	}
	return s.Activity(ctx, employeeID, s.now())
}

func (s *Service) List(ctx context.Context, f Filter) ([]Task, error) {
	return s.repo.List(ctx, f)
}

// ListDone feeds the public projects page.
func (s *Service) ListDone(ctx context.Context) ([]Task, error) {
	return s.repo.ListDone(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) Create(ctx context.Context, in Input, attachment *multipart.FileHeader) (*Task, error) {
	in = in.normalized()
	due, err := in.validate()
	if err != nil {
		return nil, err
	}

	var created *Task
	err = s.uploads.StoreThen(ctx, attachment, storage.AttachmentExtensions, func(key string) error {
		t := &Task{
			Title:        in.Title,
			Description:  in.Description,
			EmployeeID:   in.EmployeeID,
			Status:       in.Status,
			Priority:     in.Priority,
			DueDate:      due,
			ExternalLink: in.ExternalLink,
		}
		if key != "" {
			t.AttachmentFilename = &key
		}
		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "task created", "task_id", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input, attachment *multipart.FileHeader) (*Task, error) {
	in = in.normalized()
	due, err := in.validate()
	if err != nil {
		return nil, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var previous string
	err = s.uploads.StoreThen(ctx, attachment, storage.AttachmentExtensions, func(key string) error {
		t.Title = in.Title
		t.Description = in.Description
		t.EmployeeID = in.EmployeeID
		t.Employee = nil
		t.Status = in.Status
		t.Priority = in.Priority
		t.DueDate = due
		t.ExternalLink = in.ExternalLink
		if key != "" {
			previous = t.Attachment()
			t.AttachmentFilename = &key
		}
		return s.repo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.uploads.Discard(ctx, previous)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.uploads.Discard(ctx, t.Attachment())
	s.log.Info(ctx, "task deleted", "task_id", id)
	return nil
}
