package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"nil", nil, "", http.StatusOK},
		{"not found", NotFound("product %d", 7), "NotFound", http.StatusNotFound},
		{"conflict", Conflict("email %q", "a@x.com"), "Conflict", http.StatusConflict},
		{"invalid", Invalid("empty items"), "InvalidArgument", http.StatusBadRequest},
		{"transition", Transition("delivered order"), "InvalidTransition", http.StatusUnprocessableEntity},
		{"auth", fmt.Errorf("login: %w", ErrAuthFailure), "AuthFailure", http.StatusUnauthorized},
		{"other", errors.New("boom"), "Internal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Kind(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestWrappedMessagesKeepContext(t *testing.T) {
	err := NotFound("order %s", "ORD-1")
	assert.EqualError(t, err, "order ORD-1: not found")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFromValidation(t *testing.T) {
	type payload struct {
		Quantity int `validate:"gte=1"`
	}

	err := validator.New().Struct(payload{Quantity: 0})
	require.Error(t, err)

	converted := FromValidation(err)
	assert.ErrorIs(t, converted, ErrInvalidArgument)
	assert.Contains(t, converted.Error(), "payload.Quantity failed gte")

	plain := errors.New("plain")
	assert.Same(t, plain, FromValidation(plain))
	assert.NoError(t, FromValidation(nil))
}
