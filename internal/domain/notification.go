package domain

import (
	"fmt"
	"time"
)

// Notification rows are created only by the dispatcher. The only mutation the
// system ever applies is flipping IsRead. The JSON shape doubles as the
// real-time delivery payload.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user" gorm:"index"`
	Message     string    `json:"message"`
	ComplaintID *uint     `json:"complaint" gorm:"index"`
	IsRead      bool      `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationGroup names the broadcast group carrying a user's real-time
// notifications. Every open connection for the user is a member.
func NotificationGroup(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}
