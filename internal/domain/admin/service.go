package admin

import (
	"context"

	"companysite/internal/domain/contact"
	"companysite/internal/domain/remoteaction"
	"companysite/internal/logging"
)

const latestContacts = 5

// Counts are the dashboard totals.
type Counts struct {
	Contacts  int64
	Services  int64
	Employees int64
	Users     int64
	Tasks     int64
}

type Dashboard struct {
	Counts         Counts
	TasksByStatus  map[string]int64
	LatestContacts []contact.Contact
	LatestActions  []remoteaction.AdminAction
	// Degraded is set when any part could not be loaded.
	Degraded bool
}

type Sources struct {
	Services  Counter
	Employees Counter
	Users     UserCounter
	Tasks     TaskStats
	Contacts  ContactReader
	Actions   ActionReader
}

type Service struct {
	src Sources
	log logging.Logger
}

func NewService(src Sources, log logging.Logger) *Service {
	return &Service{src: src, log: log}
}

// Dashboard loads every panel. A failing panel is left empty.
func (s *Service) Dashboard(ctx context.Context) Dashboard {
	var d Dashboard
	note := func(part string, err error) {
		if err != nil {
			d.Degraded = true
			s.log.Error(ctx, "dashboard panel failed", "panel", part, "error", err)
		}
	}

	var err error
	d.Counts.Contacts, err = s.src.Contacts.Count(ctx)
	note("contacts", err)
	d.Counts.Services, err = s.src.Services.Count(ctx)
	note("services", err)
	d.Counts.Employees, err = s.src.Employees.Count(ctx)
	note("employees", err)
	d.Counts.Users, err = s.src.Users.CountUsers(ctx)
	note("users", err)
	d.Counts.Tasks, err = s.src.Tasks.Count(ctx)
	note("tasks", err)
	d.TasksByStatus, err = s.src.Tasks.CountByStatus(ctx)
	note("tasks by status", err)
	d.LatestContacts, err = s.src.Contacts.Latest(ctx, latestContacts)
	note("latest contacts", err)
	d.LatestActions, err = s.src.Actions.Latest(ctx)
	note("latest actions", err)
	return d
}
