package staff

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"companysite/internal/database"
)

type Repository interface {
	List(ctx context.Context) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const listOrder = "sort_order ASC, created_at DESC"

func (r *repository) List(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := r.db.WithContext(ctx).Order(listOrder).Find(&out).Error; err != nil {
		return nil, database.Unavailable("list employees", err)
	}
	return out, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Employee, error) {
	var out []Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order(listOrder).
		Find(&out).Error
	if err != nil {
		return nil, database.Unavailable("list active employees", err)
	}
	return out, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	var e Employee
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, database.Unavailable("get employee", err)
	}
	return &e, nil
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return database.Unavailable("create employee", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return database.Unavailable("update employee", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Employee{}, id)
	if res.Error != nil {
		return database.Unavailable("delete employee", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Employee{}).Count(&n).Error; err != nil {
		return 0, database.Unavailable("count employees", err)
	}
	return n, nil
}
