package services

import (
	"github.com/google/uuid"
	"github.com/isdelr/tasktracker/internal/auth"
	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/store"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(username, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
}

// UserService registers users and checks their credentials against the
// users collection.
type UserService struct {
	store  *store.Store[models.User]
	hasher auth.PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users *store.Store[models.User], hasher auth.PasswordHasher) *UserService {
	return &UserService{store: users, hasher: hasher}
}

// Signup creates a user unless the username is already taken. Usernames
// compare exactly, case included.
func (s *UserService) Signup(username, password string) (models.User, error) {
	stored, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:       uuid.New().String(),
		Username: username,
		Password: stored,
	}

	err = s.store.Update(func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Username == username {
				return nil, ErrUsernameTaken
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate returns the first user whose username and password match.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	users, err := s.store.Load()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Username == username && s.hasher.Verify(u.Password, password) {
			return u, nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}
