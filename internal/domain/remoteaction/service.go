package remoteaction

import (
	"bytes"
	"context"
	"time"

	"gorm.io/datatypes"

	"companysite/internal/logging"
	"companysite/internal/pkg/validator"
)

const (
	ListLimit   = 200
	LatestLimit = 5
)

func emptyMetadata() datatypes.JSON {
	return datatypes.JSON("{}")
}

type Service struct {
	repo Repository
	log  logging.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Record adds a manual entry by the administrator.
func (s *Service) Record(ctx context.Context, in Input) (*AdminAction, error) {
	if in.Action == "" {
		return nil, ErrActionRequired
	}
	a := &AdminAction{
		Actor:        ActorAdmin,
		TargetUserID: in.TargetUserID,
		DeviceID:     in.DeviceID,
		Tool:         NormalizeTool(in.Tool),
		Action:       in.Action,
		Status:       StatusInitiated,
		Notes:        in.Notes,
		Metadata:     emptyMetadata(),
		StartedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "remote action recorded", "action_id", a.ID, "tool", a.Tool)
	return a, nil
}

// Ingest stores an action reported by the MDM webhook.
func (s *Service) Ingest(ctx context.Context, p WebhookPayload) (*AdminAction, error) {
	p.normalize()
	if errs := validator.Validate(p); errs != nil {
		if _, bad := errs["status"]; bad {
			return nil, ErrInvalidStatus
		}
		return nil, ErrActionRequired
	}
	if p.Status == "" {
		p.Status = StatusInitiated
	}

	now := s.now()
	a := &AdminAction{
		Actor:        ActorWebhook,
		TargetUserID: p.TargetUserID,
		DeviceID:     p.DeviceID,
		Tool:         p.Tool,
		Action:       p.Action,
		Status:       p.Status,
		Notes:        p.Notes,
		Metadata:     emptyMetadata(),
		StartedAt:    now,
	}
	if meta := bytes.TrimSpace(p.Metadata); len(meta) > 0 && !bytes.Equal(meta, []byte("null")) {
		a.Metadata = datatypes.JSON(meta)
	}
	if IsTerminal(a.Status) {
		a.EndedAt = &now
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "webhook action stored", "action_id", a.ID, "status", a.Status)
	return a, nil
}

// Complete marks an action completed with a fresh end time.
func (s *Service) Complete(ctx context.Context, id int64) error {
	return s.repo.Complete(ctx, id, s.now())
}

func (s *Service) List(ctx context.Context) ([]AdminAction, error) {
	return s.repo.List(ctx, ListLimit)
}

func (s *Service) Latest(ctx context.Context) ([]AdminAction, error) {
	return s.repo.List(ctx, LatestLimit)
}
