package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	err := ErrInsufficientStock.With("p-1")

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.True(t, errors.Is(err, Validation))
	assert.False(t, errors.Is(err, ErrOutOfStock))
	assert.False(t, errors.Is(err, State))
	assert.Contains(t, err.Error(), "p-1")
}

func TestWrappedErrorsStillMatch(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("checkout: %w", Store(cause))

	assert.True(t, errors.Is(err, Repository))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindRepository, KindOf(err))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindRepository, KindOf(errors.New("boom")))
	assert.Equal(t, KindState, KindOf(ErrWrongState))
}
