package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(ErrTaskNotFound, ErrCodeNotFound))
	assert.False(t, IsDomainError(ErrTaskNotFound, ErrCodeConflict))
	assert.False(t, IsDomainError(errors.New("plain"), ErrCodeNotFound))
	assert.False(t, IsDomainError(nil, ErrCodeNotFound))
}

func TestIsDomainErrorSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("fetching: %w", ErrTaskNotFound)
	assert.True(t, IsDomainError(wrapped, ErrCodeNotFound))
}

func TestWrapErrorUnwraps(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := WrapError(ErrCodeConflict, "integrity violation", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "integrity violation")
	assert.Contains(t, err.Error(), cause.Error())
}
