package types

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNotFound            = errors.New("not found")
	ErrRoomUnavailable     = errors.New("room is not available")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrCorruptMetadata     = errors.New("corrupt session metadata")
	ErrUnsupportedEvent    = errors.New("unsupported event")
	ErrUpstreamUnavailable = errors.New("payment provider unavailable")
	ErrStoreUnavailable    = errors.New("store unavailable")
	// ErrDuplicateBooking is returned by stores when a booking for the same
	// checkout session already exists.
	ErrDuplicateBooking = errors.New("duplicate booking")
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// HTTPStatus maps an error from the booking flow to the status code sent to the caller.
func HTTPStatus(err error) int {
	switch {
	case err == nil, errors.Is(err, ErrUnsupportedEvent):
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrCorruptMetadata):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomUnavailable):
		return http.StatusConflict
	case errors.Is(err, ErrUpstreamUnavailable), errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns a message that is safe to show to end users.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid booking request"
	case errors.Is(err, ErrUnauthenticated):
		return "authentication required"
	case errors.Is(err, ErrNotFound):
		return "the requested resource was not found"
	case errors.Is(err, ErrRoomUnavailable):
		return "room is no longer available"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "payment failed, please try again"
	default:
		return "something went wrong, please try again"
	}
}
