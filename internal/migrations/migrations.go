// Package migrations brings the schema up to date at process start.
//
// Steps are goose Go migrations that drive gorm's migrator inside the goose
// transaction, so the same code serves SQLite, MySQL and PostgreSQL. Every
// step only creates what is missing, which lets it adopt a database that was
// created before goose tracked it.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"companysite/internal/domain/auth"
	"companysite/internal/domain/catalog"
	"companysite/internal/domain/contact"
	"companysite/internal/domain/remoteaction"
	"companysite/internal/domain/staff"
	"companysite/internal/domain/task"
	"companysite/internal/logging"
)

var mu sync.Mutex

// Run applies every pending step. Concurrent callers are serialised.
func Run(ctx context.Context, db *gorm.DB, log logging.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	p, err := newProvider(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, r := range results {
		log.Info(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Version reports the highest applied step.
func Version(ctx context.Context, db *gorm.DB) (int64, error) {
	p, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

func newProvider(db *gorm.DB) (*goose.Provider, error) {
	dialect, err := dialectOf(db)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	var ms []*goose.Migration
	for i, s := range steps {
		ms = append(ms, goose.NewGoMigration(int64(i+1),
			&goose.GoFunc{RunTx: bind(db, s.up)},
			&goose.GoFunc{RunTx: bind(db, s.down)},
		))
	}
	return goose.NewProvider(dialect, sqlDB, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(ms...),
	)
}

func dialectOf(db *gorm.DB) (goose.Dialect, error) {
	switch name := db.Dialector.Name(); name {
	case "sqlite":
		return goose.DialectSQLite3, nil
	case "mysql":
		return goose.DialectMySQL, nil
	case "postgres":
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("migrate: unsupported dialect %q", name)
	}
}

// bind runs fn with a gorm handle on the goose transaction.
func bind(db *gorm.DB, fn func(gorm.Migrator) error) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		s := db.Session(&gorm.Session{Context: ctx, NewDB: true})
		s.Statement.ConnPool = tx
		return fn(s.Migrator())
	}
}

type step struct {
	up   func(gorm.Migrator) error
	down func(gorm.Migrator) error
}

var steps = []step{
	{
		up: createTables(&catalog.Service{}, &staff.Employee{}, &auth.User{}, &task.Task{}, &contact.Contact{}),
		down: dropTables(&contact.Contact{}, &task.Task{}, &auth.User{}, &staff.Employee{}, &catalog.Service{}),
	},
	{
		up:   createTables(&task.TimeLog{}, &auth.AuthLogEntry{}, &remoteaction.AdminAction{}),
		down: dropTables(&remoteaction.AdminAction{}, &auth.AuthLogEntry{}, &task.TimeLog{}),
	},
	{
		// auth_logs created before device classification lack the column
		up:   addColumn(&auth.AuthLogEntry{}, "DeviceType"),
		down: func(gorm.Migrator) error { return nil },
	},
}

func createTables(models ...any) func(gorm.Migrator) error {
	return func(m gorm.Migrator) error {
		for _, model := range models {
			if m.HasTable(model) {
				continue
			}
			if err := m.CreateTable(model); err != nil {
				return fmt.Errorf("create table for %T: %w", model, err)
			}
		}
		return nil
	}
}

func dropTables(models ...any) func(gorm.Migrator) error {
	return func(m gorm.Migrator) error {
		for _, model := range models {
			if err := m.DropTable(model); err != nil {
				return fmt.Errorf("drop table for %T: %w", model, err)
			}
		}
		return nil
	}
}

func addColumn(model any, field string) func(gorm.Migrator) error {
	return func(m gorm.Migrator) error {
		if m.HasColumn(model, field) {
			return nil
		}
		if err := m.AddColumn(model, field); err != nil {
			return fmt.Errorf("add column %s to %T: %w", field, model, err)
		}
		return nil
	}
}
