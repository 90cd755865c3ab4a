package remoteaction

import "errors"

var (
	ErrActionNotFound = errors.New("action not found")
	ErrActionRequired = errors.New("action is required")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidPayload = errors.New("invalid payload")
)
