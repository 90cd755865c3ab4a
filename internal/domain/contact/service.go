package contact

import (
	"context"

	"companysite/internal/logging"
	"companysite/internal/pkg/validator"
)

type Service struct {
	repo Repository
	log  logging.Logger
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Submit stores a message after trimming every field.
func (s *Service) Submit(ctx context.Context, form SubmitForm) (*Contact, error) {
	form = form.normalized()
	if errs := validator.Validate(form); errs != nil {
		return nil, ErrFieldsRequired
	}

	c := &Contact{Name: form.Name, Email: form.Email, Message: form.Message}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "contact message received", "contact_id", c.ID)
	return c, nil
}

func (s *Service) Latest(ctx context.Context, limit int) ([]Contact, error) {
	return s.repo.Latest(ctx, limit)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
