package storage

import "errors"

var (
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrKeyExists       = errors.New("object key already exists")
	ErrNoFreeKey       = errors.New("could not find a free object key")
)
