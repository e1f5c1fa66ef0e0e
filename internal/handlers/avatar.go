package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/shashankgaur/task-manager-api/internal/errors"
	"github.com/shashankgaur/task-manager-api/internal/middleware"
	"github.com/shashankgaur/task-manager-api/internal/services"
)

// AvatarHandler coordinates profile-image HTTP handlers.
type AvatarHandler struct {
	avatarService *services.AvatarService
}

// NewAvatarHandler creates a new AvatarHandler.
func NewAvatarHandler(avatarService *services.AvatarService) *AvatarHandler {
	return &AvatarHandler{
		avatarService: avatarService,
	}
}

// Upload replaces the authenticated user's avatar with the uploaded file,
// normalized through the avatar pipeline.
func (h *AvatarHandler) Upload(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		apierrors.BadRequest(c, "An avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierrors.BadRequest(c, "Failed to read uploaded file")
		return
	}

	if err := h.avatarService.Store(user, fileHeader.Filename, data); err != nil {
		respondAvatarError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// Delete clears the authenticated user's avatar.
func (h *AvatarHandler) Delete(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.avatarService.Remove(user); err != nil {
		respondAvatarError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// Get serves a user's avatar by user ID. No session is required. A missing
// user and a missing avatar are the same 404.
func (h *AvatarHandler) Get(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return
	}

	avatar, err := h.avatarService.Fetch(userID)
	if err != nil {
		respondAvatarError(c, err)
		return
	}

	c.Data(http.StatusOK, services.AvatarContentType, avatar)
}

func respondAvatarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAvatarTooLarge),
		errors.Is(err, services.ErrUnsupportedAvatarType),
		errors.Is(err, services.ErrInvalidImage):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAvatarNotFound):
		apierrors.NotFound(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
