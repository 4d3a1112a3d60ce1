package api

import "context"

type DbSession interface {
	Connect() error
	IsValid() bool
	Closed() bool
}

// SnapshotFunc receives every full snapshot published by a feed. seq grows
// strictly with each batch delivered by the same feed.
type SnapshotFunc func(seq uint64, events []*EventDTO)

type EventDAO interface {
	// Subscribe registers fn for live snapshots. The returned function stops
	// delivery and may be called more than once.
	Subscribe(fn SnapshotFunc) (dispose func())
	Insert(ctx context.Context, event *EventDTO) (id string, err error)
	// Update overwrites the given top level fields of an event.
	Update(ctx context.Context, eventID string, fields map[string]interface{}) error
	// SetRsvp adds userID to the bucket named by status and removes it from
	// the other two in a single write.
	SetRsvp(ctx context.Context, eventID string, userID string, status RsvpStatus) error
	Delete(ctx context.Context, eventID string) error
}

type Authenticator interface {
	CurrentUserID() (userID string, ok bool)
}

type NotificationPlatform interface {
	Permission() NotificationPermission
	RequestPermission(ctx context.Context) (NotificationPermission, error)
	Show(notification *NotificationDTO) error
}

type Prompter interface {
	Confirm(title string, body string) (bool, error)
}

type Navigator interface {
	OpenEvent(eventID string)
}
