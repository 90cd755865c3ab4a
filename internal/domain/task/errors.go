package task

import "errors"

var (
	// ErrNotFoundOrNoAccess covers both a missing task and one owned by
	// someone else.
	ErrNotFoundOrNoAccess = errors.New("task not found or no access")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidDueDate     = errors.New("invalid due date")
)
