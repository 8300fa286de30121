package models

// Notification levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notification is a transient message for the user, shown once and then dropped
type Notification struct {
	Level       string `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InfoNotification builds an info-level notification.
func InfoNotification(title, description string) Notification {
	return Notification{Level: LevelInfo, Title: title, Description: description}
}

// ErrorNotification builds an error-level notification.
func ErrorNotification(title, description string) Notification {
	return Notification{Level: LevelError, Title: title, Description: description}
}

// WarningNotification builds a warning-level notification.
func WarningNotification(title, description string) Notification {
	return Notification{Level: LevelWarning, Title: title, Description: description}
}
