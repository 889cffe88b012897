package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyCatalog is returned when there are no steps to run a test with.
var ErrEmptyCatalog = errors.New("catalog has no steps")

// ErrCatalogUnavailable wraps failures reading the step catalog.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ErrStepNotFound is returned by catalog administration for unknown ids.
var ErrStepNotFound = errors.New("step not found")

// ErrUnsupportedImage is returned when a step image is not an accepted format.
var ErrUnsupportedImage = errors.New("unsupported image type")

var (
	// ErrStepOutOfRange is returned when a click addresses a step that does not exist.
	ErrStepOutOfRange = errors.New("step index out of range")

	// ErrStepMismatch is returned when the client's step index disagrees with the session.
	ErrStepMismatch = errors.New("step index does not match session")

	// ErrInvalidTransition is returned when an event is not valid in the current phase.
	ErrInvalidTransition = errors.New("event not valid in current phase")
)

// ErrInvalidQuestionnaire is returned for missing or malformed questionnaire fields.
var ErrInvalidQuestionnaire = errors.New("invalid questionnaire")

// ErrRecordFailed is returned when a result could not be appended.
// The session state is left untouched.
var ErrRecordFailed = errors.New("failed to record result")

// IsProtocolError reports whether err came from stale or tampered client state.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrStepOutOfRange) ||
		errors.Is(err, ErrStepMismatch) ||
		errors.Is(err, ErrInvalidTransition)
}
