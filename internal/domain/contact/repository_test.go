package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"companysite/internal/database"
)

func TestRepositoryWrapsDriverFailures(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "contacts"`).WillReturnError(errors.New("connection refused"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "contacts"`).WillReturnError(errors.New("connection refused"))

	repo := NewRepository(db)
	_, err = repo.Latest(context.Background(), 5)
	assert.ErrorIs(t, err, database.ErrDataUnavailable)

	_, err = repo.Count(context.Background())
	assert.ErrorIs(t, err, database.ErrDataUnavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLatest(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "message"}).
		AddRow(2, "Bob", "bob@example.com", "Second").
		AddRow(1, "Ann", "ann@example.com", "First")
	mock.ExpectQuery(`SELECT \* FROM "contacts" ORDER BY created_at DESC, id DESC LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(rows)

	got, err := NewRepository(db).Latest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
