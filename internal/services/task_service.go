package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shashankgaur/task-manager-api/internal/models"
	"github.com/shashankgaur/task-manager-api/internal/repository"
	"github.com/shashankgaur/task-manager-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrDescriptionEmpty   = errors.New("description is required")
	ErrFailedToSaveTask   = errors.New("failed to save task")
	ErrFailedToDeleteTask = errors.New("failed to delete task")
)

// TaskService handles task business logic. Every operation is scoped to the
// owning user; a task belonging to someone else is indistinguishable from a
// missing one.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Description string
	Completed   bool
	OwnerID     uint64
}

// Create creates a task for the owner.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionEmpty
	}

	task := &models.Task{
		Description: description,
		Completed:   input.Completed,
		OwnerID:     input.OwnerID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, ErrFailedToSaveTask
	}
	return task, nil
}

// ListTasksInput represents filters for listing a user's tasks
type ListTasksInput struct {
	OwnerID    uint64
	Completed  *bool
	Pagination utils.PaginationParams
}

// List returns the owner's tasks with optional completed filtering.
func (s *TaskService) List(input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListByOwner(repository.TaskFilter{
		OwnerID:    input.OwnerID,
		Completed:  input.Completed,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// Get returns one of the owner's tasks by ID.
func (s *TaskService) Get(id, ownerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput represents input for updating a task. Nil means the field
// was not present in the request.
type UpdateTaskInput struct {
	Description *string
	Completed   *bool
}

// Update applies the changed fields to one of the owner's tasks.
func (s *TaskService) Update(id, ownerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, ErrDescriptionEmpty
		}
		task.Description = description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, ErrFailedToSaveTask
	}
	return task, nil
}

// Delete removes one of the owner's tasks.
func (s *TaskService) Delete(id, ownerID uint64) error {
	err := s.taskRepo.Delete(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return ErrFailedToDeleteTask
	}
	return nil
}
