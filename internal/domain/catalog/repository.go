package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"companysite/internal/database"
)

type Repository interface {
	List(ctx context.Context) ([]Service, error)
	ListPublic(ctx context.Context, limit int) ([]Service, error)
	GetByID(ctx context.Context, id int64) (*Service, error)
	Create(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Service, error) {
	var out []Service
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, database.Unavailable("list services", err)
	}
	return out, nil
}

// ListPublic returns active services, featured first. limit <= 0 means all.
func (r *repository) ListPublic(ctx context.Context, limit int) ([]Service, error) {
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("featured DESC, sort_order ASC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []Service
	if err := q.Find(&out).Error; err != nil {
		return nil, database.Unavailable("list public services", err)
	}
	return out, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Service, error) {
	var s Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, database.Unavailable("get service", err)
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *Service) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return database.Unavailable("create service", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, s *Service) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return database.Unavailable("update service", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Service{}, id)
	if res.Error != nil {
		return database.Unavailable("delete service", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Service{}).Count(&n).Error; err != nil {
		return 0, database.Unavailable("count services", err)
	}
	return n, nil
}
