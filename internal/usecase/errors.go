package usecase

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("An expert with this email already exists")
	ErrNotFound   = errors.New("Expert not found")
	ErrStore      = errors.New("store failure")
)

const (
	msgMissingFields   = "Missing required fields: name, email, title, department, affiliate"
	msgMissingSkills   = "At least one skill is required"
	msgMissingQuery    = `Query parameter "q" is required`
	msgNoNominees      = "No experts provided for nomination"
	msgUnknownCategory = "Unknown category: "
)

// ValidationError carries the message shown to the caller. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
