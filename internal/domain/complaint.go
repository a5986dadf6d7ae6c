package domain

import (
	"time"
)

type Category string

const (
	CategoryGarbage Category = "garbage"
	CategoryRoad    Category = "road"
	CategoryWater   Category = "water"
	CategoryLights  Category = "lights"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGarbage, CategoryRoad, CategoryWater, CategoryLights:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

type Complaint struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user" gorm:"index"`
	Title       string    `json:"title" gorm:"size:100"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty" gorm:"type:text"` // data URI, stored verbatim
	Latitude    float64   `json:"location_lat"`
	Longitude   float64   `json:"location_lng"`
	Category    Category  `json:"category" gorm:"size:20"`
	Severity    Severity  `json:"severity" gorm:"size:10"`
	CreatedAt   time.Time `json:"created_at"`

	// The association declarations put ON DELETE CASCADE into the schema:
	// removing a complaint takes its history, notifications and tasks with it.
	Statuses      []ComplaintStatus `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Notifications []Notification    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Tasks         []AssignedTask    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// ComplaintStatus rows are an append-only history. The current status of a
// complaint is the most recent row; individual rows are never mutated. No
// transition graph is enforced, any status may follow any other.
type ComplaintStatus struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ComplaintID uint      `json:"complaint" gorm:"index"`
	Status      Status    `json:"status" gorm:"size:20"`
	UpdatedAt   time.Time `json:"updated_at"`
}
