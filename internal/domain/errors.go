package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the services wraps exactly one of these.
var (
	ErrAuth       = errors.New("authentication failed")
	ErrFetch      = errors.New("project lookup failed")
	ErrIndex      = errors.New("row index out of range")
	ErrParse      = errors.New("document parse failed")
	ErrUpload     = errors.New("upload failed")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrEmptySelection   = fmt.Errorf("%w: no reports selected", ErrValidation)
	ErrMissingIdentity  = fmt.Errorf("%w: no logged-in user", ErrValidation)
	ErrMissingProject   = fmt.Errorf("%w: project information unavailable", ErrValidation)
	ErrMissingFields    = fmt.Errorf("%w: username and password are required", ErrValidation)
	ErrNoReports        = fmt.Errorf("%w: no reports found in document", ErrParse)
	ErrNoSession        = errors.New("no active session")
	ErrSessionEnded     = errors.New("session ended before the request completed")
	ErrUploadInProgress = fmt.Errorf("%w: an upload is already in progress", ErrValidation)
)

// IsSessionFatal reports whether err ended the session
func IsSessionFatal(err error) bool {
	return errors.Is(err, ErrAuth)
}
