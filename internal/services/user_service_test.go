package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/isdelr/tasktracker/internal/auth"
	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T, hasher auth.PasswordHasher) (*UserService, *store.Store[models.User]) {
	t.Helper()
	users := store.New[models.User](filepath.Join(t.TempDir(), "users.json"))
	return NewUserService(users, hasher), users
}

func TestSignup_CreatesUser(t *testing.T) {
	s, users := newUserService(t, auth.BcryptHasher{Cost: bcrypt.MinCost})

	user, err := s.Signup("alice", "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "p1", user.Password)

	stored, err := users.Load()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, user, stored[0])
}

func TestSignup_RejectsDuplicateRegardlessOfPassword(t *testing.T) {
	s, users := newUserService(t, auth.PlainHasher{})

	_, err := s.Signup("alice", "p1")
	require.NoError(t, err)

	for _, pw := range []string{"p1", "other", ""} {
		_, err = s.Signup("alice", pw)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	}

	stored, err := users.Load()
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSignup_UsernamesAreCaseSensitive(t *testing.T) {
	s, _ := newUserService(t, auth.PlainHasher{})

	a, err := s.Signup("alice", "p1")
	require.NoError(t, err)
	b, err := s.Signup("Alice", "p1")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAuthenticate(t *testing.T) {
	for name, hasher := range map[string]auth.PasswordHasher{
		"bcrypt": auth.BcryptHasher{Cost: bcrypt.MinCost},
		"plain":  auth.PlainHasher{},
	} {
		t.Run(name, func(t *testing.T) {
			s, _ := newUserService(t, hasher)
			alice, err := s.Signup("alice", "p1")
			require.NoError(t, err)
			_, err = s.Signup("bob", "p2")
			require.NoError(t, err)

			got, err := s.Authenticate("alice", "p1")
			require.NoError(t, err)
			assert.Equal(t, alice.ID, got.ID)

			_, err = s.Authenticate("alice", "p2")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			_, err = s.Authenticate("ALICE", "p1")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			_, err = s.Authenticate("carol", "p1")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthenticate_EmptyDirectory(t *testing.T) {
	s, _ := newUserService(t, auth.PlainHasher{})

	_, err := s.Authenticate("alice", "p1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_ReadsLegacyPlainFile(t *testing.T) {
	s, users := newUserService(t, auth.PlainHasher{})
	legacy := `[{"id":"7f1c","username":"alice","password":"p1"}]`
	require.NoError(t, os.WriteFile(users.Path(), []byte(legacy), 0o644))

	user, err := s.Authenticate("alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, "7f1c", user.ID)
}

func TestUserService_CorruptFile(t *testing.T) {
	s, users := newUserService(t, auth.PlainHasher{})
	require.NoError(t, os.WriteFile(users.Path(), []byte("garbage"), 0o644))

	var perr *store.ParseError
	_, err := s.Signup("alice", "p1")
	assert.ErrorAs(t, err, &perr)
	_, err = s.Authenticate("alice", "p1")
	assert.ErrorAs(t, err, &perr)
}
