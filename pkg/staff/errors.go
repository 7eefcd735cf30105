package staff

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure categories every operation can
// surface. Handlers map these onto HTTP status codes; services wrap
// them with context via fmt.Errorf and %w.
var (
	// ErrNotFound means a referenced entity id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means the actor id was missing or unknown.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrChiefConflict means a shift holds two chief surgeons at once.
	// This invariant violation is surfaced instead of silently picking
	// one to displace.
	ErrChiefConflict = errors.New("shift has more than one chief surgeon")
)

// ValidationError reports malformed or missing input. No mutation has
// been performed when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthorizationError reports that a resolved actor failed a permission
// check. Reason names the rule that blocked the action.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "forbidden: " + e.Reason
}

// NewAuthorizationError builds an AuthorizationError.
func NewAuthorizationError(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
