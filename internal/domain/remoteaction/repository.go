package remoteaction

import (
	"context"
	"time"

	"gorm.io/gorm"

	"companysite/internal/database"
)

type Repository interface {
	Create(ctx context.Context, a *AdminAction) error
	List(ctx context.Context, limit int) ([]AdminAction, error)
	Complete(ctx context.Context, id int64, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *AdminAction) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return database.Unavailable("create admin action", err)
	}
	return nil
}

// List returns the newest started actions first.
func (r *repository) List(ctx context.Context, limit int) ([]AdminAction, error) {
	var out []AdminAction
	err := r.db.WithContext(ctx).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, database.Unavailable("list admin actions", err)
	}
	return out, nil
}

func (r *repository) Complete(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&AdminAction{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": StatusCompleted, "ended_at": at})
	if res.Error != nil {
		return database.Unavailable("complete admin action", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrActionNotFound
	}
	return nil
}
