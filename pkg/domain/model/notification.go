package model

import "time"

// NotificationKind distinguishes outcomes reported to the presentation surface
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is an event emitted to the external notification collaborator
type Notification struct {
	Kind    NotificationKind
	Message string
	At      time.Time
}

// NewSuccess builds a success notification
func NewSuccess(msg string) Notification {
	return Notification{Kind: NotificationSuccess, Message: msg, At: time.Now()}
}

// NewError builds an error notification
func NewError(msg string) Notification {
	return Notification{Kind: NotificationError, Message: msg, At: time.Now()}
}
