package status

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrNotLoggedIn  = errors.New("auth: no credentials configured")

	// ErrValidation is wrapped by every client-side validation failure.
	// No request is sent when one of these is returned.
	ErrValidation    = errors.New("validation failed")
	ErrEmptyComment  = fmt.Errorf("%w: comment must not be empty", ErrValidation)
	ErrMissingReason = fmt.Errorf("%w: rejection reason is required", ErrValidation)
	ErrMissingID     = fmt.Errorf("%w: id is required", ErrValidation)

	ErrUnknownTab    = errors.New("dashboard: unknown tab")
	ErrUnknownFilter = errors.New("dashboard: unknown filter")
	ErrUnknownAction = errors.New("dashboard: unknown action")
	ErrNoSnapshot    = errors.New("dashboard: no snapshot yet")
	ErrCacheMiss     = errors.New("dashboard: snapshot not cached")
)
