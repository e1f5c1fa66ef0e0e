package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shashankgaur/task-manager-api/internal/dto"
	apierrors "github.com/shashankgaur/task-manager-api/internal/errors"
	"github.com/shashankgaur/task-manager-api/internal/middleware"
	"github.com/shashankgaur/task-manager-api/internal/services"
	"github.com/shashankgaur/task-manager-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers. All routes are owner-scoped.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Create creates a task owned by the current user.
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Description string `json:"description" binding:"required"`
		Completed   bool   `json:"completed"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
		OwnerID:     user.ID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// List returns the current user's tasks. Supports ?completed= filtering and
// pagination.
func (h *TaskHandler) List(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var completed *bool
	if value := c.Query("completed"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed filter")
			return
		}
		completed = &parsed
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.List(services.ListTasksInput{
		OwnerID:    user.ID,
		Completed:  completed,
		Pagination: params,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// Get returns one of the current user's tasks by ID.
func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return
	}

	task, err := h.taskService.Get(taskID, user.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Update applies a partial update to one of the current user's tasks.
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(taskID, user.ID, services.UpdateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Delete removes one of the current user's tasks.
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return
	}

	if err := h.taskService.Delete(taskID, user.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDescriptionEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
