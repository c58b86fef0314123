package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error taxonomy shared by the store, the ledger and the session binding
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAuthFailure       = errors.New("authentication failed")
)

// NotFound wraps ErrNotFound with a formatted message
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Conflict wraps ErrConflict with a formatted message
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// Invalid wraps ErrInvalidArgument with a formatted message
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// Transition wraps ErrInvalidTransition with a formatted message
func Transition(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidTransition)
}

// FromValidation converts validator errors into ErrInvalidArgument naming the failing fields.
// Any other error is returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return Invalid("%s", strings.Join(fields, "; "))
}

// Kind returns the taxonomy name of err, or "Internal" when err is outside the taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgument"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, ErrAuthFailure):
		return "AuthFailure"
	default:
		return "Internal"
	}
}

// HTTPStatus maps err to the status code used by the HTTP delivery
func HTTPStatus(err error) int {
	switch Kind(err) {
	case "":
		return http.StatusOK
	case "NotFound":
		return http.StatusNotFound
	case "Conflict":
		return http.StatusConflict
	case "InvalidArgument":
		return http.StatusBadRequest
	case "InvalidTransition":
		return http.StatusUnprocessableEntity
	case "AuthFailure":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
