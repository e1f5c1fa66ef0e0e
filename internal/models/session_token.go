package models

import "time"

// SessionToken is one currently-valid login session for a user. A signed
// token authenticates only while its row exists; logout deletes the row.
type SessionToken struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"type:varchar(512);index;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
