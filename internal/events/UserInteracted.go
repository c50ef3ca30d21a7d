package events

import "time"

var UserInteractedTopic = "UserInteractedEvent"

type UserInteracted struct {
	UserID   int64
	UserName string
	Command  string
	At       time.Time
}
