package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username         string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName        *string   `gorm:"size:150" json:"first_name"`
	LastName         *string   `gorm:"size:150" json:"last_name"`
	Bio              *string   `gorm:"type:text" json:"bio"`
	Role             Role      `gorm:"size:9;default:'user';not null" json:"role"`
	IsSuperuser      bool      `gorm:"not null;default:false" json:"-"`
	IsActive         bool      `gorm:"not null;default:false" json:"-"`
	ConfirmationCode *string   `gorm:"size:50" json:"-"` // nil once consumed
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID and default role before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}
