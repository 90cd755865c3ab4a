package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companysite/internal/logging"
	"companysite/internal/testutil"
)

func newTestUploader(t *testing.T) (*Uploader, *LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/static/uploads")
	require.NoError(t, err)

	u := NewUploader(store, logging.Discard())
	u.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC) }
	return u, store, dir
}

func TestUploader_SaveWritesFile(t *testing.T) {
	u, _, dir := newTestUploader(t)

	stored, err := u.Save(context.Background(), testutil.FileHeader(t, "logo.png", []byte("png-bytes")), ImageExtensions)
	require.NoError(t, err)

	assert.Equal(t, "logo-20260102030405000006.png", stored.Key)
	assert.Equal(t, "/static/uploads/logo-20260102030405000006.png", stored.URL)

	content, err := os.ReadFile(filepath.Join(dir, stored.Key))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestUploader_SameNameNeverCollides(t *testing.T) {
	u, _, dir := newTestUploader(t)
	ctx := context.Background()

	first, err := u.Save(ctx, testutil.FileHeader(t, "logo.png", []byte("one")), ImageExtensions)
	require.NoError(t, err)
	second, err := u.Save(ctx, testutil.FileHeader(t, "logo.png", []byte("two")), ImageExtensions)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.Equal(t, "logo-20260102030405000006-1.png", second.Key)

	one, _ := os.ReadFile(filepath.Join(dir, first.Key))
	two, _ := os.ReadFile(filepath.Join(dir, second.Key))
	assert.Equal(t, "one", string(one))
	assert.Equal(t, "two", string(two))
}

func TestUploader_RejectsDisallowedExtension(t *testing.T) {
	u, _, dir := newTestUploader(t)

	_, err := u.Save(context.Background(), testutil.FileHeader(t, "virus.exe", []byte("MZ")), ImageExtensions)
	assert.ErrorIs(t, err, ErrInvalidFileType)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestUploader_StoreThenRemovesBlobWhenCommitFails(t *testing.T) {
	u, _, dir := newTestUploader(t)
	commitErr := errors.New("insert failed")

	var seenKey string
	err := u.StoreThen(context.Background(), testutil.FileHeader(t, "a.jpg", []byte("x")), ImageExtensions, func(key string) error {
		seenKey = key
		_, statErr := os.Stat(filepath.Join(dir, key))
		assert.NoError(t, statErr, "blob must exist while the row is written")
		return commitErr
	})

	assert.ErrorIs(t, err, commitErr)
	assert.NotEmpty(t, seenKey)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestUploader_StoreThenWithoutFile(t *testing.T) {
	u, _, _ := newTestUploader(t)

	called := false
	err := u.StoreThen(context.Background(), nil, ImageExtensions, func(key string) error {
		called = true
		assert.Empty(t, key)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestUploader_StoreThenInvalidFileSkipsCommit(t *testing.T) {
	u, _, _ := newTestUploader(t)

	err := u.StoreThen(context.Background(), testutil.FileHeader(t, "a.exe", []byte("x")), ImageExtensions, func(string) error {
		t.Fatal("commit must not run for a rejected file")
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestLocalStore_RejectsPathKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Exists(context.Background(), "../etc/passwd")
	assert.Error(t, err)
	assert.NoError(t, store.Delete(context.Background(), "missing.png"))
	assert.Equal(t, "/static/uploads/a.png", store.URL("a.png"))
}
