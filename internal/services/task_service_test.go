package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shashankgaur/task-manager-api/internal/models"
	"github.com/shashankgaur/task-manager-api/internal/repository"
	"github.com/shashankgaur/task-manager-api/internal/utils"
)

func setupTaskTestEnv(t *testing.T) *TaskService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.SessionToken{}, &models.Task{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewTaskService(repository.NewTaskRepository(db))
}

func TestTaskService_CreateAndGet(t *testing.T) {
	svc := setupTaskTestEnv(t)

	task, err := svc.Create(CreateTaskInput{
		Description: "  buy milk  ",
		OwnerID:     1,
	})
	require.NoError(t, err)
	require.Equal(t, "buy milk", task.Description)
	require.False(t, task.Completed)

	found, err := svc.Get(task.ID, 1)
	require.NoError(t, err)
	require.Equal(t, task.ID, found.ID)
}

func TestTaskService_Create_RejectsEmptyDescription(t *testing.T) {
	svc := setupTaskTestEnv(t)

	_, err := svc.Create(CreateTaskInput{Description: "   ", OwnerID: 1})
	require.ErrorIs(t, err, ErrDescriptionEmpty)
}

func TestTaskService_OwnerScoping(t *testing.T) {
	svc := setupTaskTestEnv(t)

	task, err := svc.Create(CreateTaskInput{Description: "private", OwnerID: 1})
	require.NoError(t, err)

	// another user sees not-found, never someone else's task
	_, err = svc.Get(task.ID, 2)
	require.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.Delete(task.ID, 2)
	require.ErrorIs(t, err, ErrTaskNotFound)

	completed := true
	_, err = svc.Update(task.ID, 2, UpdateTaskInput{Completed: &completed})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_ListFiltersAndPaginates(t *testing.T) {
	svc := setupTaskTestEnv(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(CreateTaskInput{Description: "todo", OwnerID: 1})
		require.NoError(t, err)
	}
	_, err := svc.Create(CreateTaskInput{Description: "done", Completed: true, OwnerID: 1})
	require.NoError(t, err)
	_, err = svc.Create(CreateTaskInput{Description: "someone else's", OwnerID: 2})
	require.NoError(t, err)

	completed := false
	tasks, total, err := svc.List(ListTasksInput{
		OwnerID:    1,
		Completed:  &completed,
		Pagination: utils.PaginationParams{Page: 1, Limit: 2, Offset: 0},
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, tasks, 2)

	// second page picks up the remaining incomplete task
	tasks, _, err = svc.List(ListTasksInput{
		OwnerID:    1,
		Completed:  &completed,
		Pagination: utils.PaginationParams{Page: 2, Limit: 2, Offset: 2},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	tasks, total, err = svc.List(ListTasksInput{
		OwnerID:    1,
		Pagination: utils.PaginationParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, tasks, 4)
}

func TestTaskService_Update(t *testing.T) {
	svc := setupTaskTestEnv(t)

	task, err := svc.Create(CreateTaskInput{Description: "draft", OwnerID: 1})
	require.NoError(t, err)

	completed := true
	description := "final"
	updated, err := svc.Update(task.ID, 1, UpdateTaskInput{
		Description: &description,
		Completed:   &completed,
	})
	require.NoError(t, err)
	require.Equal(t, "final", updated.Description)
	require.True(t, updated.Completed)
}
