package services

import "errors"

// ErrConflict is returned when every optimistic-concurrency retry for a
// stats update lost the version race.
var ErrConflict = errors.New("concurrent update conflict")
