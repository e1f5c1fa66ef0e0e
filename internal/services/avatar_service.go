package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"

	"golang.org/x/image/draw"
	"gorm.io/gorm"

	"github.com/shashankgaur/task-manager-api/internal/constants"
	"github.com/shashankgaur/task-manager-api/internal/models"
	"github.com/shashankgaur/task-manager-api/internal/repository"
)

var (
	ErrAvatarTooLarge        = errors.New("avatar file exceeds the size limit")
	ErrUnsupportedAvatarType = errors.New("avatar must be a .jpg, .jpeg or .png file")
	ErrInvalidImage          = errors.New("avatar file could not be decoded as an image")
	ErrAvatarNotFound        = errors.New("avatar not found")
	ErrFailedToStoreAvatar   = errors.New("failed to store avatar")
)

// AvatarContentType is the content type of every stored avatar. Uploads are
// re-encoded to PNG regardless of input format.
const AvatarContentType = "image/png"

var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AvatarService normalizes uploaded profile images: validate, decode,
// resize to a fixed square, re-encode as PNG, store on the user record.
type AvatarService struct {
	userRepo repository.UserRepository
}

// NewAvatarService creates a new AvatarService.
func NewAvatarService(userRepo repository.UserRepository) *AvatarService {
	return &AvatarService{userRepo: userRepo}
}

// Store validates and normalizes the upload, then replaces the user's
// avatar. Size and extension checks run before any decoding so oversized or
// mistyped files are rejected cheaply with a validation error.
func (s *AvatarService) Store(user *models.User, filename string, data []byte) error {
	if len(data) > constants.MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	if !allowedAvatarExtensions[filepath.Ext(filename)] {
		return ErrUnsupportedAvatarType
	}

	normalized, err := normalizeAvatar(data)
	if err != nil {
		return err
	}

	user.Avatar = normalized
	if err := s.userRepo.Update(user); err != nil {
		return ErrFailedToStoreAvatar
	}
	return nil
}

// Remove clears the user's avatar.
func (s *AvatarService) Remove(user *models.User) error {
	user.Avatar = nil
	if err := s.userRepo.Update(user); err != nil {
		return ErrFailedToStoreAvatar
	}
	return nil
}

// Fetch returns the stored avatar bytes for a user ID. A missing user and a
// user without an avatar are the same ErrAvatarNotFound to the caller.
func (s *AvatarService) Fetch(userID uint64) ([]byte, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if len(user.Avatar) == 0 {
		return nil, ErrAvatarNotFound
	}
	return user.Avatar, nil
}

// normalizeAvatar decodes the upload and scales it to the fixed square
// dimensions. Aspect ratio is not preserved; the output is always exactly
// AvatarDimension by AvatarDimension, PNG-encoded.
func normalizeAvatar(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, constants.AvatarDimension, constants.AvatarDimension))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, ErrInvalidImage
	}
	return buf.Bytes(), nil
}
