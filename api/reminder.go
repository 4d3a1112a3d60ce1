package api

import (
	"context"
	"time"
)

type ReminderKind int8

const (
	ReminderKind_DAY_BEFORE  ReminderKind = 1
	ReminderKind_HOUR_BEFORE ReminderKind = 2
)

func (k ReminderKind) String() string {
	switch k {
	case ReminderKind_DAY_BEFORE:
		return "day_before"
	case ReminderKind_HOUR_BEFORE:
		return "hour_before"
	}
	return "none"
}

// ReminderDTO is one reminder due for an attended event.
type ReminderDTO struct {
	UserId        string // attendee the reminder was evaluated for
	EventId       string
	EventTitle    string
	EventTime     string // HH:MM as stored
	EventLocation string
	StartsAt      time.Time
	Kind          ReminderKind
}

// Tag groups every reminder of the same event, so platforms replace rather
// than stack them.
func (r *ReminderDTO) Tag() string {
	return ReminderTag(r.EventId)
}

func ReminderTag(eventID string) string {
	return "event-" + eventID
}

// EventPath is the location of the details view of an event.
func EventPath(eventID string) string {
	return "/event/" + eventID
}

type ReminderDispatcher interface {
	Dispatch(ctx context.Context, reminder *ReminderDTO) error
	EnsurePermission(ctx context.Context) bool
}
