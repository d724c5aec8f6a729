package domain

import "time"

// AccountAction identifies what happened to an account.
type AccountAction string

const (
	ActionRegistered AccountAction = "registered"
	ActionLoggedIn   AccountAction = "logged_in"
	ActionUpdated    AccountAction = "updated"
	ActionDeleted    AccountAction = "deleted"
)

// AccountEvent is a single audit-trail entry for a user account.
type AccountEvent struct {
	UserID    string        `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	Action    AccountAction `json:"action" bson:"action"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
}
