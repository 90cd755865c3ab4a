package task

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"companysite/internal/database"
)

// workOrder lists blocked work first, then in-progress, todo and done, with
// the nearest due date first and undated tasks last.
const workOrder = "CASE status WHEN 'blocked' THEN 0 WHEN 'in_progress' THEN 1 WHEN 'todo' THEN 2 WHEN 'done' THEN 3 ELSE 4 END, " +
	"CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, updated_at DESC"

type Repository interface {
	ListForEmployee(ctx context.Context, employeeID int64) ([]Task, error)
	List(ctx context.Context, f Filter) ([]Task, error)
	ListDone(ctx context.Context) ([]Task, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Transition appends a time log and sets the task status atomically.
	Transition(ctx context.Context, t *Task, action, status string) error
	TimeLogs(ctx context.Context, taskID int64) ([]TimeLog, error)
	LogsBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]TimeLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListForEmployee returns the employee's tasks in work order. employeeID 0
// returns every task.
func (r *repository) ListForEmployee(ctx context.Context, employeeID int64) ([]Task, error) {
	q := r.db.WithContext(ctx).Preload("Employee").Order(workOrder)
	if employeeID > 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	var out []Task
	if err := q.Find(&out).Error; err != nil {
		return nil, database.Unavailable("list employee tasks", err)
	}
	return out, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Task, error) {
	q := r.db.WithContext(ctx).Preload("Employee").Order("updated_at DESC, id DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.EmployeeID > 0 {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}

	var out []Task
	if err := q.Find(&out).Error; err != nil {
		return nil, database.Unavailable("list tasks", err)
	}
	return out, nil
}

func (r *repository) ListDone(ctx context.Context) ([]Task, error) {
	return r.List(ctx, Filter{Status: StatusDone})
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).Preload("Employee").First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, database.Unavailable("get task", err)
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return database.Unavailable("create task", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error; err != nil {
		return database.Unavailable("update task", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Task{}, id)
	if res.Error != nil {
		return database.Unavailable("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Task{}).Count(&n).Error; err != nil {
		return 0, database.Unavailable("count tasks", err)
	}
	return n, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&Task{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, database.Unavailable("count tasks by status", err)
	}

	out := make(map[string]int64, len(Statuses))
	for _, s := range Statuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *repository) Transition(ctx context.Context, t *Task, action, status string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := TimeLog{EmployeeID: *t.EmployeeID, TaskID: t.ID, Action: action}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		res := tx.Model(&Task{}).Where("id = ?", t.ID).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFoundOrNoAccess
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFoundOrNoAccess) {
			return err
		}
		return database.Unavailable("task "+action, err)
	}
	t.Status = status
	return nil
}

func (r *repository) TimeLogs(ctx context.Context, taskID int64) ([]TimeLog, error) {
	var out []TimeLog
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, database.Unavailable("list time logs", err)
	}
	return out, nil
}

// LogsBetween returns events in [from, to). employeeID 0 means everyone.
func (r *repository) LogsBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]TimeLog, error) {
	q := r.db.WithContext(ctx).Where("created_at >= ? AND created_at < ?", from, to)
	if employeeID > 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	var out []TimeLog
	if err := q.Find(&out).Error; err != nil {
		return nil, database.Unavailable("list activity", err)
	}
	return out, nil
}
