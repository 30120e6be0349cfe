package http

import (
	"errors"
	"net/http"

	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// statusFor maps application errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrTransientStore), errors.Is(err, ports.ErrOrderNumberTaken):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the response payload. Internal failures are not echoed
// back to the caller.
func errorBody(err error) Error {
	code := statusFor(err)
	body := Error{Code: code, Message: err.Error()}

	switch code {
	case http.StatusInternalServerError:
		body.Message = "Internal server error"
	case http.StatusServiceUnavailable:
		body.Message = "Temporarily unavailable, retry the request"
	case http.StatusBadRequest:
		if fields := validationFields(err); len(fields) > 0 {
			body.Message = errs.ErrValidation.Error()
			body.Fields = fields
		}
	}
	return body
}

// validationFields merges the fields of every ValidationError in the tree,
// including those combined with errors.Join.
func validationFields(err error) map[string][]string {
	fields := make(map[string][]string)
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if verr, ok := e.(*errs.ValidationError); ok {
			for f, msgs := range verr.Fields {
				fields[f] = append(fields[f], msgs...)
			}
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return fields
}
