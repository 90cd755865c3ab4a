package admin

import (
	"context"

	"companysite/internal/domain/auth"
	"companysite/internal/domain/contact"
	"companysite/internal/domain/remoteaction"
)

// Counter is satisfied by the services, employees and tasks services.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

type TaskStats interface {
	Counter
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type ContactReader interface {
	Counter
	Latest(ctx context.Context, limit int) ([]contact.Contact, error)
}

type ActionReader interface {
	Latest(ctx context.Context) ([]remoteaction.AdminAction, error)
}

type ActivityReader interface {
	Activity(ctx context.Context, device string) ([]auth.AuthLogEntry, error)
}
