package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Error_Status(t *testing.T) {
	testCases := []struct {
		name     string
		err      *Error
		expected int
	}{
		{name: "not found", err: NotFound("Product with ID %d not found", 7), expected: http.StatusNotFound},
		{name: "validation", err: Validation("Validation failed", "a", "b"), expected: http.StatusBadRequest},
		{name: "unauthorized", err: Unauthorized("nope"), expected: http.StatusUnauthorized},
		{name: "internal", err: Internal(errors.New("boom")), expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Status())
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func Test_NotFound_FormatsMessage(t *testing.T) {
	err := NotFound("Product with ID %d not found", 42)
	assert.Equal(t, "Product with ID 42 not found", err.Message)
	assert.Equal(t, KindNotFound, err.Kind)
}

func Test_Validation_KeepsAllDetails(t *testing.T) {
	err := Validation("Validation failed", "first", "second", "third")
	assert.Equal(t, []string{"first", "second", "third"}, err.Details)
}

func Test_Internal_HidesCause(t *testing.T) {
	cause := errors.New("database password is hunter2")
	err := Internal(cause)

	assert.Equal(t, "Internal Server Error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Trace(), "hunter2")
	assert.Contains(t, err.Trace(), "error_test.go", "trace should carry the stack")
}

func Test_From(t *testing.T) {
	t.Run("typed error is returned as is", func(t *testing.T) {
		typed := NotFound("gone")
		wrapped := fmt.Errorf("handler: %w", typed)

		got := From(wrapped)

		assert.Same(t, typed, got)
	})
	t.Run("plain error becomes internal", func(t *testing.T) {
		got := From(errors.New("boom"))

		require.NotNil(t, got)
		assert.Equal(t, KindInternal, got.Kind)
		assert.Equal(t, http.StatusInternalServerError, got.Status())
	})
}

func Test_FromPanic(t *testing.T) {
	got := FromPanic("index out of range")
	assert.Equal(t, KindInternal, got.Kind)
	assert.Contains(t, got.Trace(), "panic: index out of range")

	cause := errors.New("nil map")
	got = FromPanic(cause)
	assert.ErrorIs(t, got, cause)
}
