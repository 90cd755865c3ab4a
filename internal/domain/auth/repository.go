package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"companysite/internal/database"
)

type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context) ([]User, error) {
	var out []User
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("username ASC").
		Find(&out).Error
	if err != nil {
		return nil, database.Unavailable("list users", err)
	}
	return out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, database.Unavailable("get user", err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, database.Unavailable("get user by username", err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return database.Unavailable("create user", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return database.Unavailable("update user", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return database.Unavailable("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, database.Unavailable("count users", err)
	}
	return n, nil
}

// LogRepository stores the sign-in audit trail.
type LogRepository interface {
	Create(ctx context.Context, e *AuthLogEntry) error
	List(ctx context.Context, device string, limit int) ([]AuthLogEntry, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type logRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, e *AuthLogEntry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return database.Unavailable("create auth log", err)
	}
	return nil
}

// List returns the newest entries first. An empty device means all.
func (r *logRepository) List(ctx context.Context, device string, limit int) ([]AuthLogEntry, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if device != "" {
		q = q.Where("device_type = ?", device)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []AuthLogEntry
	if err := q.Find(&out).Error; err != nil {
		return nil, database.Unavailable("list auth logs", err)
	}
	return out, nil
}

// DeleteBefore removes entries older than cutoff and reports how many.
func (r *logRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&AuthLogEntry{})
	if res.Error != nil {
		return 0, database.Unavailable("prune auth logs", res.Error)
	}
	return res.RowsAffected, nil
}
