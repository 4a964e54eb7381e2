package operations

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Kind is the transport-neutral class of a failed operation.
type Kind string

const (
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindConflict           Kind = "CONFLICT"
	KindNotFound           Kind = "NOT_FOUND"
	KindPermissionDenied   Kind = "PERMISSION_DENIED"
	KindValidation         Kind = "VALIDATION"
	KindInternal           Kind = "INTERNAL"
)

const (
	MsgNotAuthenticated   = "Not authenticated."
	MsgInvalidCredentials = "Invalid credentials. Please try again!"
	MsgUserExists         = "The user already exists"
	MsgFlightNotFound     = "Flight not found."
	MsgBookingNotFound    = "Booking not found."
	MsgUserNotFound       = "User not found."
	MsgPermissionDenied   = "Not allowed to cancel this booking."
	MsgInternal           = "Internal server error."
)

// Error is the public form of a failure. It never carries internal details.
type Error struct {
	Message string `json:"message"`
	Code    Kind   `json:"code"`
}

func (e Error) Error() string {
	return e.Message
}

// Classify maps an error from the services to its public form.
func Classify(err error) Error {
	var public Error
	switch {
	case errors.As(err, &public):
		return public
	case errors.Is(err, domain.ErrAuthenticationRequired):
		return Error{Message: MsgNotAuthenticated, Code: KindUnauthenticated}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return Error{Message: MsgInvalidCredentials, Code: KindInvalidCredentials}
	case errors.Is(err, domain.ErrUserExists):
		return Error{Message: MsgUserExists, Code: KindConflict}
	case errors.Is(err, domain.ErrFlightNotFound):
		return Error{Message: MsgFlightNotFound, Code: KindNotFound}
	case errors.Is(err, domain.ErrBookingNotFound):
		return Error{Message: MsgBookingNotFound, Code: KindNotFound}
	case errors.Is(err, domain.ErrUserNotFound):
		return Error{Message: MsgUserNotFound, Code: KindNotFound}
	case errors.Is(err, domain.ErrPermissionDenied):
		return Error{Message: MsgPermissionDenied, Code: KindPermissionDenied}
	case errors.Is(err, domain.ErrValidation):
		msg, ok := domain.ValidationMessage(err)
		if !ok {
			msg = "Invalid input."
		}
		return Error{Message: msg, Code: KindValidation}
	default:
		return Error{Message: MsgInternal, Code: KindInternal}
	}
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
