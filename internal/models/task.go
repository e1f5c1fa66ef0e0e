package models

import (
	"time"
)

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Description string    `gorm:"not null" json:"description"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	OwnerID     uint64    `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
