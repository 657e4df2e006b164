package order

import "errors"

var (
	// ErrInvalidState is returned when an operation does not apply to the current checkout state.
	ErrInvalidState   = errors.New("operation not allowed in current checkout state")
	ErrUnknownSurface = errors.New("unknown contact surface")
)

// validationError reports input the user has to correct before retrying.
type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func newValidationError(msg string) error {
	return validationError{message: msg}
}

// IsValidation distinguishes user input problems from infrastructure failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
