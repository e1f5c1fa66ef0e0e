package repository

import (
	"errors"
	"fmt"

	"github.com/shashankgaur/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating the user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateToken is returned when recording the first session token fails inside the signup transaction.
	ErrCreateToken = errors.New("user repository: create session token failed")
	// ErrDeleteTasks is returned when the task cascade fails inside the delete transaction.
	ErrDeleteTasks = errors.New("user repository: delete owned tasks failed")
	// ErrDeleteTokens is returned when clearing session tokens fails inside the delete transaction.
	ErrDeleteTokens = errors.New("user repository: delete session tokens failed")
	// ErrDeleteUser is returned when deleting the user row fails inside the delete transaction.
	ErrDeleteUser = errors.New("user repository: delete user failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithToken creates the user and their first session token atomically.
// The token is signed over the user's ID, which only exists after the insert,
// so issuing happens inside the transaction.
func (r *GormUserRepository) CreateWithToken(user *models.User, issue func(userID uint64) (string, error)) (string, error) {
	var token string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		issued, err := issue(user.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCreateToken, err)
		}

		session := &models.SessionToken{
			UserID: user.ID,
			Token:  issued,
		}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateToken, err)
		}

		token = issued
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by their normalized email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to an existing user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// EmailTaken reports whether another user already has the email
func (r *GormUserRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteWithOwnedData deletes tasks, session tokens, and the user in one
// transaction. Ordering matters: dependents go first so a failure never
// leaves tasks pointing at a deleted owner.
func (r *GormUserRepository) DeleteWithOwnedData(userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteTasks, err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.SessionToken{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteTokens, err)
		}

		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteUser, err)
		}

		return nil
	})
}
