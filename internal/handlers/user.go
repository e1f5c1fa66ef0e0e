package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shashankgaur/task-manager-api/internal/dto"
	apierrors "github.com/shashankgaur/task-manager-api/internal/errors"
	"github.com/shashankgaur/task-manager-api/internal/middleware"
	"github.com/shashankgaur/task-manager-api/internal/services"
	"github.com/shashankgaur/task-manager-api/internal/validation"
)

// UserHandler coordinates account-related HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Signup registers a new user and returns their first session token.
func (h *UserHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Age      int    `json:"age"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.userService.Create(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		User:  dto.ToUserDTO(*user),
		Token: token,
	})
}

// Login authenticates a user and issues a new session token.
func (h *UserHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.userService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.ToUserDTO(*user),
		Token: token,
	})
}

// Logout revokes the session token used for this request only.
func (h *UserHandler) Logout(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	token, ok := middleware.GetCurrentToken(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.Logout(user, token); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// LogoutAll revokes every session token for the current user.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.LogoutAll(user); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out of all sessions",
	})
}

// Me returns the authenticated user's public profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// updatableUserFields is the whitelist for PATCH /users/me. A request
// containing any other key is rejected wholesale before any field is
// applied.
var updatableUserFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// UpdateMe applies a partial update to the authenticated user's profile.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if len(raw) == 0 {
		apierrors.BadRequest(c, "No fields to update")
		return
	}
	for field := range raw {
		if !updatableUserFields[field] {
			apierrors.BadRequest(c, "Invalid updates")
			return
		}
	}

	var input services.UpdateUserInput
	fields := []struct {
		key string
		dst interface{}
	}{
		{"name", &input.Name},
		{"email", &input.Email},
		{"password", &input.Password},
		{"age", &input.Age},
	}
	for _, f := range fields {
		value, present := raw[f.key]
		if !present {
			continue
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	if err := h.userService.Update(user, input); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteMe removes the authenticated user's account along with every task
// they own, then returns the deleted profile.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.Delete(user); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		apierrors.BadRequestWithDetails(c, fieldErr.Message, fieldErr)
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequestWithDetails(c, err.Error(), &validation.FieldError{
			Field:   "email",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
