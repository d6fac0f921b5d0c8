package models

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	default:
		return false
	}
}

// Notification is written once per event; only IsRead changes afterwards.
type Notification struct {
	ID            string           `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	RecipientID   string           `gorm:"column:recipient_id;type:varchar(36);not null;index" json:"recipient_id"`
	Message       string           `gorm:"column:message;type:text" json:"message"`
	Type          NotificationType `gorm:"column:type;type:varchar(16)" json:"type"` // info|success|warning|error
	ApplicationID *string          `gorm:"column:application_id;type:varchar(36)" json:"application_id,omitempty"`
	IsRead        bool             `gorm:"column:is_read" json:"is_read"`
	CreatedAt     time.Time        `gorm:"column:created_at;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
