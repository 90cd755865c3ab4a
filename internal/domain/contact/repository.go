package contact

import (
	"context"

	"gorm.io/gorm"

	"companysite/internal/database"
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	Latest(ctx context.Context, limit int) ([]Contact, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Contact) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return database.Unavailable("create contact", err)
	}
	return nil
}

func (r *repository) Latest(ctx context.Context, limit int) ([]Contact, error) {
	var out []Contact
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, database.Unavailable("list contacts", err)
	}
	return out, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Contact{}).Count(&n).Error; err != nil {
		return 0, database.Unavailable("count contacts", err)
	}
	return n, nil
}
