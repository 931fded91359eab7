package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("Test User", "test@example.com", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()

		_, err := NewUser("Test User", "not-an-email", "correct horse battery")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()

		_, err := NewUser("Test User", "test@example.com", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		t.Parallel()

		_, err := NewUser("Test User", "", "correct horse battery")
		assert.ErrorIs(t, err, ErrEmptyEmail)
	})
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from storage has a hash but no plaintext password.
	stored := &User{Email: "test@example.com", HashedPassword: "$2a$10$abcdefg"}
	assert.NoError(t, stored.Validate())

	missingHash := &User{Email: "test@example.com"}
	assert.ErrorIs(t, missingHash.Validate(), ErrEmptyPassword)
}
