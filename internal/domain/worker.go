package domain

import (
	"time"
)

type Worker struct {
	ID             uint     `json:"id" gorm:"primaryKey"`
	Name           string   `json:"name" gorm:"size:100"`
	Phone          string   `json:"phone" gorm:"size:15"`
	Email          string   `json:"email,omitempty"`
	Specialization Category `json:"specialization" gorm:"size:50"`
	Active         bool     `json:"active" gorm:"default:true"`
	// UserID links the worker to their login account so task assignments can
	// be delivered as notifications. Nil for workers without an account.
	UserID *uint `json:"user,omitempty" gorm:"index"`

	// Removing a worker removes their task rows.
	Tasks []AssignedTask `json:"-" gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE"`
}

type AssignedTask struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	WorkerID    uint       `json:"-" gorm:"index"`
	ComplaintID uint       `json:"complaint" gorm:"index"`
	AssignedAt  time.Time  `json:"assigned_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Worker Worker `json:"worker" gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE"`
}
