package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func Test_StatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.NewValidationError("items", "must not be empty"), http.StatusBadRequest},
		{"required", errs.NewValueIsRequiredError("order id"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("quantity", 0, 1, 1000), http.StatusBadRequest},
		{"not found", fmt.Errorf("load: %w", errs.NewObjectNotFoundError("order", "x")), http.StatusNotFound},
		{"conflict", errs.NewConflictError("status", "terminal"), http.StatusConflict},
		{"transient", errs.NewTransientStoreError(errors.New("40001")), http.StatusServiceUnavailable},
		{"numbers exhausted", fmt.Errorf("allocate order number after 5 attempts: %w", ports.ErrOrderNumberTaken), http.StatusServiceUnavailable},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func Test_ErrorBodyMergesJoinedValidationErrors(t *testing.T) {
	err := errors.Join(
		errs.NewValidationError("items[0].quantity", "must be at least 1"),
		fmt.Errorf("wrapped: %w", errs.NewValidationError("channel", "unknown channel")),
		errs.NewValidationError("items[0].quantity", "must be an integer"),
	)

	body := errorBody(err)

	assert.Equal(t, http.StatusBadRequest, body.Code)
	assert.Equal(t, errs.ErrValidation.Error(), body.Message)
	assert.Equal(t, []string{"must be at least 1", "must be an integer"}, body.Fields["items[0].quantity"])
	assert.Equal(t, []string{"unknown channel"}, body.Fields["channel"])
}

func Test_ErrorBodyHidesInternalDetails(t *testing.T) {
	body := errorBody(errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, body.Code)
	assert.Equal(t, "Internal server error", body.Message)
}
