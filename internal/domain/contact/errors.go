package contact

import "errors"

var ErrFieldsRequired = errors.New("all fields are required")
