package model

// Notification categories.
const (
	CategorySuccess = "success"
	CategoryError   = "error"
)

// Notification is a message shown to the visitor on exactly one page render.
type Notification struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// IsZero reports whether the notification carries nothing to show.
func (n Notification) IsZero() bool {
	return n.Message == ""
}

// SuccessNotification creates a success notification.
func SuccessNotification(message string) Notification {
	return Notification{Category: CategorySuccess, Message: message}
}

// ErrorNotification creates an error notification.
func ErrorNotification(message string) Notification {
	return Notification{Category: CategoryError, Message: message}
}
