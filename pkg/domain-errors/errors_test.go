package domainerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "regwatch/pkg/domain-errors"
)

func TestHasCode(t *testing.T) {
	err := dErrors.New(dErrors.CodeNotFound, "regulation missing")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.False(t, dErrors.HasCode(errors.New("plain"), dErrors.CodeNotFound))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("no rows")
	err := dErrors.Wrap(cause, dErrors.CodeInternal, "load regulation")

	assert.ErrorIs(t, err, cause)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Contains(t, err.Error(), "no rows")
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := dErrors.New(dErrors.CodeInvariantViolation, "already validated")
	outer := fmt.Errorf("update status: %w", inner)

	assert.True(t, dErrors.HasCode(outer, dErrors.CodeInvariantViolation))
	assert.Equal(t, dErrors.CodeInvariantViolation, dErrors.CodeOf(outer))
}

func TestIsMatchesByCodeAndDescription(t *testing.T) {
	err := dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	assert.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
	assert.NotErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(errors.New("pool exhausted")))
}
