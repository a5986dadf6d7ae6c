package domain

import (
	"time"
)

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
	RoleWorker  Role = "worker"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleAdmin, RoleWorker:
		return true
	}
	return false
}

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:150"`
	Email     string    `json:"email" gorm:"index"`
	Password  string    `json:"-"` // Hashed password
	CreatedAt time.Time `json:"created_at"`

	Profile    *Profile    `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Complaints []Complaint `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Profile carries the role assignment. At most one per user.
type Profile struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  uint   `json:"user" gorm:"uniqueIndex"`
	Role    Role   `json:"role" gorm:"size:10"`
	Phone   string `json:"phone,omitempty" gorm:"size:15"`
	Address string `json:"address,omitempty"`
}

// RoleOrDefault returns the profile role, defaulting to citizen when no
// profile row exists yet.
func (u *User) RoleOrDefault() Role {
	if u.Profile == nil {
		return RoleCitizen
	}
	return u.Profile.Role
}
