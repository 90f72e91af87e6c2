package domain

import "time"

// EventType identifies a lifecycle event on a user account.
type EventType string

const (
	EventUserCreated EventType = "user_created"
	EventUserUpdated EventType = "user_updated"
	EventUserDeleted EventType = "user_deleted"
)

// UserEvent is emitted after a user mutation commits.
type UserEvent struct {
	Type       EventType
	UserID     string
	Email      string
	OccurredAt time.Time
}
