package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineErrorWrapsAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(InvariantViolation, "failed to rest order", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "InvariantViolation")
	assert.Contains(t, err.Error(), "boom")
}

func TestErrorsAsExtractsKind(t *testing.T) {
	err := NewError(OrderNotFound, "abc-123")

	var engErr *EngineError
	ok := errors.As(err, &engErr)
	assert.True(t, ok)
	assert.Equal(t, OrderNotFound, engErr.Kind)
}
