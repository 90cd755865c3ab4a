package staff

import (
	"context"
	"mime/multipart"

	"companysite/internal/logging"
	"companysite/internal/storage"
)

// Service manages employees and their photos.
type Service struct {
	repo    Repository
	uploads *storage.Uploader
	log     logging.Logger
}

func NewService(repo Repository, uploads *storage.Uploader, log logging.Logger) *Service {
	return &Service{repo: repo, uploads: uploads, log: log}
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListActive(ctx context.Context) ([]Employee, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// PhotoURL resolves a stored photo key to its public address.
func (s *Service) PhotoURL(key string) string {
	return s.uploads.URL(key)
}

// Create validates the form, stores the optional photo and inserts the row.
// A failed insert removes the stored photo again.
func (s *Service) Create(ctx context.Context, in Input, photo *multipart.FileHeader) (*Employee, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *Employee
	err := s.uploads.StoreThen(ctx, photo, storage.ImageExtensions, func(key string) error {
		e := &Employee{
			Name:      in.Name,
			Position:  in.Position,
			IsActive:  in.IsActive,
			SortOrder: in.SortOrder,
		}
		if key != "" {
			e.PhotoFilename = &key
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return err
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "employee created", "employee_id", created.ID)
	return created, nil
}

// Update edits an employee. The photo is replaced only when a new file is
// supplied; the old one is removed after the row is saved.
func (s *Service) Update(ctx context.Context, id int64, in Input, photo *multipart.FileHeader) (*Employee, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var previous string
	err = s.uploads.StoreThen(ctx, photo, storage.ImageExtensions, func(key string) error {
		existing.Name = in.Name
		existing.Position = in.Position
		existing.IsActive = in.IsActive
		existing.SortOrder = in.SortOrder
		if key != "" {
			previous = existing.Photo()
			existing.PhotoFilename = &key
		}
		return s.repo.Update(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.uploads.Discard(ctx, previous)
	return existing, nil
}

// Delete removes the employee; tasks and time logs go with it through the
// foreign keys, linked accounts are unlinked.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.uploads.Discard(ctx, existing.Photo())
	s.log.Info(ctx, "employee deleted", "employee_id", id)
	return nil
}
