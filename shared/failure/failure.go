package failure

import (
	"errors"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	kind    error
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Booking engine error kinds. Match them with errors.Is.
var (
	ErrNoCapabilityLink = errors.New("no capability link")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidSlot      = errors.New("invalid slot")
	ErrNotFound         = errors.New("not found")
)

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the error kind, if any.
func (e *Failure) Unwrap() error {
	return e.kind
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
		kind:    ErrNotFound,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// NoCapabilityLink is returned when a provider does not perform a service in any room.
func NoCapabilityLink() error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Message: "provider does not offer this service in any room",
		kind:    ErrNoCapabilityLink,
	}
}

// CapacityExceeded is returned when the target slot is full at commit time.
func CapacityExceeded() error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: "room is full at the selected time",
		kind:    ErrCapacityExceeded,
	}
}

// InvalidSlot is returned when a start time is not one of the generated slots.
func InvalidSlot(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Message: msg,
		kind:    ErrInvalidSlot,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
