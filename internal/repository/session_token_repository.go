package repository

import (
	"github.com/shashankgaur/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormSessionTokenRepository is a GORM implementation of SessionTokenRepository
type GormSessionTokenRepository struct {
	db *gorm.DB
}

// NewSessionTokenRepository creates a new SessionTokenRepository
func NewSessionTokenRepository(db *gorm.DB) SessionTokenRepository {
	return &GormSessionTokenRepository{db: db}
}

// Add records a newly issued token for a user. Each login inserts its own
// row, so concurrent logins accumulate instead of displacing each other.
func (r *GormSessionTokenRepository) Add(userID uint64, token string) error {
	session := &models.SessionToken{
		UserID: userID,
		Token:  token,
	}
	return r.db.Create(session).Error
}

// Exists reports whether the exact token is currently valid for the user
func (r *GormSessionTokenRepository) Exists(userID uint64, token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SessionToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Remove revokes a single token
func (r *GormSessionTokenRepository) Remove(userID uint64, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.SessionToken{}).Error
}

// RemoveAll revokes every token for a user
func (r *GormSessionTokenRepository) RemoveAll(userID uint64) error {
	return r.db.Where("user_id = ?", userID).
		Delete(&models.SessionToken{}).Error
}
