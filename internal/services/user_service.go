package services

import (
	"errors"
	"fmt"

	"github.com/shashankgaur/task-manager-api/internal/auth"
	"github.com/shashankgaur/task-manager-api/internal/email"
	"github.com/shashankgaur/task-manager-api/internal/models"
	"github.com/shashankgaur/task-manager-api/internal/repository"
	"github.com/shashankgaur/task-manager-api/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("unable to login")
	ErrUserNotFound        = errors.New("user not found")
	ErrFailedToCreateUser  = errors.New("failed to create user")
	ErrFailedToIssueToken  = errors.New("failed to issue session token")
	ErrFailedToUpdateUser  = errors.New("failed to update user")
	ErrFailedToDeleteUser  = errors.New("failed to delete user")
	ErrFailedToRevokeToken = errors.New("failed to revoke session token")
)

// UserService handles the account lifecycle: signup, login, profile
// updates, logout, and the cascading account delete.
type UserService struct {
	userRepo repository.UserRepository
	tokens   repository.SessionTokenRepository
	manager  *auth.TokenManager
	notifier email.Notifier
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, tokens repository.SessionTokenRepository, manager *auth.TokenManager, notifier email.Notifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		manager:  manager,
		notifier: notifier,
	}
}

// CreateUserInput represents the required information to create a new user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// Create validates the candidate fields, hashes the password, persists the
// user together with their first session token, and fires the welcome email.
// The email is best-effort and never fails the signup.
func (s *UserService) Create(input CreateUserInput) (*models.User, string, error) {
	name, verr := validation.Name(input.Name)
	if verr != nil {
		return nil, "", verr
	}
	emailAddr, verr := validation.Email(input.Email)
	if verr != nil {
		return nil, "", verr
	}
	password, verr := validation.Password(input.Password)
	if verr != nil {
		return nil, "", verr
	}
	if verr := validation.Age(input.Age); verr != nil {
		return nil, "", verr
	}

	taken, err := s.userRepo.EmailTaken(emailAddr, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", ErrFailedToCreateUser
	}

	user := &models.User{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
		Age:          input.Age,
	}

	token, err := s.userRepo.CreateWithToken(user, s.manager.Issue)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateUser):
			return nil, "", ErrFailedToCreateUser
		case errors.Is(err, repository.ErrCreateToken):
			return nil, "", ErrFailedToIssueToken
		default:
			return nil, "", fmt.Errorf("failed to complete signup: %w", err)
		}
	}

	s.notifier.SendWelcomeEmail(user.Email, user.Name)

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a new session token. The failure is
// the same whether the email is unknown or the password is wrong. Each login
// adds a token, so other devices stay logged in.
func (s *UserService) Login(input LoginInput) (*models.User, string, error) {
	emailAddr, verr := validation.Email(input.Email)
	if verr != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.manager.Issue(user.ID)
	if err != nil {
		return nil, "", ErrFailedToIssueToken
	}
	if err := s.tokens.Add(user.ID, token); err != nil {
		return nil, "", ErrFailedToIssueToken
	}

	return user, token, nil
}

// UpdateUserInput carries the updatable profile fields. Nil means the field
// was not present in the request.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// Update re-validates exactly the fields that changed and persists the
// result. The password is re-hashed only when a new one is supplied.
func (s *UserService) Update(user *models.User, input UpdateUserInput) error {
	if input.Name != nil {
		name, verr := validation.Name(*input.Name)
		if verr != nil {
			return verr
		}
		user.Name = name
	}

	if input.Email != nil {
		emailAddr, verr := validation.Email(*input.Email)
		if verr != nil {
			return verr
		}
		taken, err := s.userRepo.EmailTaken(emailAddr, user.ID)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}
		user.Email = emailAddr
	}

	if input.Password != nil {
		password, verr := validation.Password(*input.Password)
		if verr != nil {
			return verr
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return ErrFailedToUpdateUser
		}
		user.PasswordHash = hash
	}

	if input.Age != nil {
		if verr := validation.Age(*input.Age); verr != nil {
			return verr
		}
		user.Age = *input.Age
	}

	if err := s.userRepo.Update(user); err != nil {
		return ErrFailedToUpdateUser
	}
	return nil
}

// Delete removes the user and, in the same transaction, every task they own
// and every session token. The goodbye email fires only after the delete
// committed.
func (s *UserService) Delete(user *models.User) error {
	if err := s.userRepo.DeleteWithOwnedData(user.ID); err != nil {
		return ErrFailedToDeleteUser
	}

	s.notifier.SendGoodbyeEmail(user.Email, user.Name)
	return nil
}

// Logout revokes the single token used by the current session. Tokens for
// the user's other devices stay valid.
func (s *UserService) Logout(user *models.User, token string) error {
	if err := s.tokens.Remove(user.ID, token); err != nil {
		return ErrFailedToRevokeToken
	}
	return nil
}

// LogoutAll revokes every session token for the user.
func (s *UserService) LogoutAll(user *models.User) error {
	if err := s.tokens.RemoveAll(user.ID); err != nil {
		return ErrFailedToRevokeToken
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
