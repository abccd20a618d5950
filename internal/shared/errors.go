package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Store errors
	ErrRecordNotFound = fmt.Errorf("record not found")
	ErrTrackNotFound  = fmt.Errorf("track not found")
	ErrDuplicateTitle = fmt.Errorf("duplicate record title")
	ErrDuplicateTrack = fmt.Errorf("duplicate track for record")

	// Catalog error kinds, mapped to HTTP status codes by the server
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFormat   = fmt.Errorf("unsupported export format")
)

// CatalogError is a caller-facing failure of a catalog operation.
//
// Kind is one of [ErrConflict], [ErrNotFound] or [ErrBadRequest] and is matched with [errors.Is].
// Message is safe to return to clients.
type CatalogError struct {
	Kind    error
	Message string
}

// NewCatalogError builds a [CatalogError] of the given kind with a formatted message.
func NewCatalogError(kind error, format string, args ...any) *CatalogError {
	return &CatalogError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *CatalogError) Error() string {
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Kind
}
