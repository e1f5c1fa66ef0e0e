package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Age          int       `gorm:"not null;default:0" json:"age"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Tokens []SessionToken `gorm:"foreignKey:UserID" json:"-"`
	Tasks  []Task         `gorm:"foreignKey:OwnerID" json:"-"`
}
