package repository

import (
	"github.com/shashankgaur/task-manager-api/internal/models"
	"github.com/shashankgaur/task-manager-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithToken creates a user and their first session token within a
	// single transaction. The token is produced by issue once the user's ID
	// is assigned; an issue failure rolls back the user row.
	CreateWithToken(user *models.User, issue func(userID uint64) (string, error)) (string, error)

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by their normalized email
	FindByEmail(email string) (*models.User, error)

	// Update persists changes to an existing user
	Update(user *models.User) error

	// EmailTaken reports whether another user already has the email
	EmailTaken(email string, excludeID uint64) (bool, error)

	// DeleteWithOwnedData deletes the user's tasks and session tokens,
	// then the user, atomically. Any step failing aborts the whole delete.
	DeleteWithOwnedData(userID uint64) error
}

// SessionTokenRepository defines the interface for session token data access
type SessionTokenRepository interface {
	// Add records a newly issued token for a user
	Add(userID uint64, token string) error

	// Exists reports whether the exact token is currently valid for the user
	Exists(userID uint64, token string) (bool, error)

	// Remove revokes a single token
	Remove(userID uint64, token string) error

	// RemoveAll revokes every token for a user
	RemoveAll(userID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID    uint64
	Completed  *bool
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDAndOwner finds a task by ID scoped to its owner
	FindByIDAndOwner(id, ownerID uint64) (*models.Task, error)

	// ListByOwner retrieves a user's tasks with filtering and pagination
	ListByOwner(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task scoped to its owner
	Delete(id, ownerID uint64) error

	// DeleteAllByOwner deletes every task owned by the user
	DeleteAllByOwner(ownerID uint64) error
}
