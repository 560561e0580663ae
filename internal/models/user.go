package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Locale       string `gorm:"size:5;default:'en'" json:"locale"`

	Roles []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"roles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// RoleNames flattens the role join rows.
func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Role)
	}
	return out
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// UserRole is one entry of a user's role set.
type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Role      string    `gorm:"size:20;primaryKey" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
