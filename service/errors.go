package service

import "errors"

// ErrNotFound marks a lookup for a record that does not exist. Services wrap
// it with the entity name; callers classify it with errors.Is.
var ErrNotFound = errors.New("not found")
