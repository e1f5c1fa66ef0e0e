package repository

import (
	"github.com/shashankgaur/task-manager-api/internal/database"
	"github.com/shashankgaur/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByIDAndOwner finds a task by ID scoped to its owner
func (r *GormTaskRepository) FindByIDAndOwner(id, ownerID uint64) (*models.Task, error) {
	var task models.Task
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner retrieves a user's tasks with filtering and pagination
func (r *GormTaskRepository) ListByOwner(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("owner_id = ?", filter.OwnerID)
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete deletes a task scoped to its owner
func (r *GormTaskRepository) Delete(id, ownerID uint64) error {
	result := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAllByOwner deletes every task owned by the user
func (r *GormTaskRepository) DeleteAllByOwner(ownerID uint64) error {
	return r.db.Where("owner_id = ?", ownerID).Delete(&models.Task{}).Error
}
