// Package apperr defines the planner's error taxonomy and its mapping
// to HTTP status codes, structured after the typed-code/wrapped-cause
// shape used for flow-network errors in the logistics solver pack,
// simplified to this service's five error kinds.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNoSolution     Code = "NO_SOLUTION"
	CodePlanUnfeasible Code = "PLAN_UNFEASIBLE"
	CodeRoutingError   Code = "ROUTING_ERROR"
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeParse          Code = "PARSE_ERROR"
)

// Error is a taxonomy error: a stable Code, a human message, and an
// optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func NoSolution(format string, args ...any) error {
	return newErr(CodeNoSolution, nil, format, args...)
}

func PlanUnfeasible(cause error, format string, args ...any) error {
	return newErr(CodePlanUnfeasible, cause, format, args...)
}

func RoutingError(cause error, format string, args ...any) error {
	return newErr(CodeRoutingError, cause, format, args...)
}

func Validation(format string, args ...any) error {
	return newErr(CodeValidation, nil, format, args...)
}

func Parse(cause error, format string, args ...any) error {
	return newErr(CodeParse, cause, format, args...)
}

// HTTPStatus maps an error's taxonomy code to the HTTP status it should
// surface as. Errors outside the taxonomy map to 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Code {
	case CodeNoSolution:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusNotAcceptable
	case CodeParse:
		return http.StatusBadRequest
	case CodeRoutingError:
		return http.StatusInternalServerError
	case CodePlanUnfeasible:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
