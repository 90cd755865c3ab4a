package messaging

import "errors"

var (
	ErrNotConfigured  = errors.New("email is not configured")
	ErrPhoneRequired  = errors.New("phone number is required")
	ErrEmailFields    = errors.New("recipient, subject and body are required")
	ErrInvalidPort    = errors.New("invalid port")
)
