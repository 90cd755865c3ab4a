package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"companysite/internal/logging"
)

const (
	MaxFileSize    = 16 * 1024 * 1024 // 16 MB
	maxKeyAttempts = 100
)

// Stored describes an object written by the Uploader.
type Stored struct {
	Key          string
	URL          string
	OriginalName string
	Size         int64
}

// Uploader validates incoming files and writes them to a Store under
// collision-free names.
type Uploader struct {
	store Store
	log   logging.Logger
	now   func() time.Time
}

func NewUploader(store Store, log logging.Logger) *Uploader {
	return &Uploader{store: store, log: log, now: time.Now}
}

func (u *Uploader) URL(key string) string {
	if key == "" {
		return ""
	}
	return u.store.URL(key)
}

// Check validates a file without storing it.
func (u *Uploader) Check(fh *multipart.FileHeader, allow Allowlist) error {
	if !allow.Allows(fh.Filename) {
		return ErrInvalidFileType
	}
	if fh.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// Save validates and stores fh. The returned key is never an existing one:
// a numeric suffix is appended until the store reports it free.
func (u *Uploader) Save(ctx context.Context, fh *multipart.FileHeader, allow Allowlist) (*Stored, error) {
	if err := u.Check(fh, allow); err != nil {
		return nil, err
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	base := ObjectName(fh.Filename, u.now())
	contentType := fh.Header.Get("Content-Type")

	for n := 0; n < maxKeyAttempts; n++ {
		key := base
		if n > 0 {
			key = withSuffix(base, n)
		}

		exists, err := u.store.Exists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check object %s: %w", key, err)
		}
		if exists {
			continue
		}

		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind upload: %w", err)
		}
		err = u.store.Put(ctx, key, file, fh.Size, contentType)
		if errors.Is(err, ErrKeyExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store object %s: %w", key, err)
		}

		return &Stored{Key: key, URL: u.store.URL(key), OriginalName: fh.Filename, Size: fh.Size}, nil
	}
	return nil, ErrNoFreeKey
}

// Discard removes an object, logging instead of failing.
func (u *Uploader) Discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := u.store.Delete(ctx, key); err != nil {
		u.log.Warn(ctx, "failed to remove stored object", "key", key, "error", err)
	}
}

// StoreThen is the two-phase write used by every form with an upload:
// the file is stored first, then commit runs with its key. If commit fails
// the stored object is removed again. With no file, commit runs with "".
func (u *Uploader) StoreThen(ctx context.Context, fh *multipart.FileHeader, allow Allowlist, commit func(key string) error) error {
	if fh == nil {
		return commit("")
	}

	stored, err := u.Save(ctx, fh, allow)
	if err != nil {
		return err
	}

	if err := commit(stored.Key); err != nil {
		u.Discard(ctx, stored.Key)
		return err
	}
	return nil
}
