package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Roles lists every assignable role.
var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

type User struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string  `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string  `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName *string `gorm:"size:150" json:"first_name"`
	LastName  *string `gorm:"size:150" json:"last_name"`
	Bio       string  `gorm:"type:text;not null;default:''" json:"bio"`
	Role      string  `gorm:"size:16;default:'user';not null" json:"role"`
	IsStaff   bool    `gorm:"not null;default:false" json:"-"`

	// bcrypt hash of the pending confirmation code, empty when none is pending
	ConfirmationCode string `gorm:"size:72;not null;default:''" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
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

// IsAdmin reports admin capability: the admin role or the staff flag.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsStaff
}

func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
