package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorHierarchy(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrCarNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrBrandNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrCarModelNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrColorNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrEmailExists, ErrDuplicate)
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(ErrCarNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("context: %w", ErrUserNotFound)))
	assert.False(t, IsNotFoundError(ErrEmailExists))
	assert.False(t, IsNotFoundError(errors.New("unrelated")))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection reset")
	err := NewStoreError("car", "update", "query failed", inner)

	assert.Contains(t, err.Error(), "update operation on car failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, inner)

	noCause := NewStoreError("brand", "list", "scan failed", nil)
	assert.Equal(t, "list operation on brand failed: scan failed", noCause.Error())
}
