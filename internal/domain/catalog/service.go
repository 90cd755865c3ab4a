package catalog

import (
	"context"
	"mime/multipart"

	"companysite/internal/logging"
	"companysite/internal/storage"
)

// FeaturedLimit is how many services the home page shows.
const FeaturedLimit = 3

// CatalogService manages the company's services and their images.
type CatalogService struct {
	repo    Repository
	uploads *storage.Uploader
	log     logging.Logger
}

func NewService(repo Repository, uploads *storage.Uploader, log logging.Logger) *CatalogService {
	return &CatalogService{repo: repo, uploads: uploads, log: log}
}

func (s *CatalogService) List(ctx context.Context) ([]Service, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) ListPublic(ctx context.Context) ([]Service, error) {
	return s.repo.ListPublic(ctx, 0)
}

func (s *CatalogService) ListFeatured(ctx context.Context) ([]Service, error) {
	return s.repo.ListPublic(ctx, FeaturedLimit)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*Service, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *CatalogService) ImageURL(key string) string {
	return s.uploads.URL(key)
}

func (s *CatalogService) Create(ctx context.Context, in Input, image *multipart.FileHeader) (*Service, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *Service
	err := s.uploads.StoreThen(ctx, image, storage.ImageExtensions, func(key string) error {
		svc := &Service{
			Title:       in.Title,
			Description: in.Description,
			IsActive:    in.IsActive,
			Featured:    in.Featured,
			SortOrder:   in.SortOrder,
		}
		if key != "" {
			svc.ImageFilename = &key
		}
		if err := s.repo.Create(ctx, svc); err != nil {
			return err
		}
		created = svc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "service created", "service_id", created.ID)
	return created, nil
}

// Update keeps the current image unless a new one is uploaded.
func (s *CatalogService) Update(ctx context.Context, id int64, in Input, image *multipart.FileHeader) (*Service, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var previous string
	err = s.uploads.StoreThen(ctx, image, storage.ImageExtensions, func(key string) error {
		existing.Title = in.Title
		existing.Description = in.Description
		existing.IsActive = in.IsActive
		existing.Featured = in.Featured
		existing.SortOrder = in.SortOrder
		if key != "" {
			previous = existing.Image()
			existing.ImageFilename = &key
		}
		return s.repo.Update(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.uploads.Discard(ctx, previous)
	return existing, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.uploads.Discard(ctx, existing.Image())
	s.log.Info(ctx, "service deleted", "service_id", id)
	return nil
}
