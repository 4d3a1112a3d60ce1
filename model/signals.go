package model

type SignalType int

const (

	// Store

	// A newer snapshot of the feed replaced the cache
	SignalSnapshot SignalType = iota

	// Subscription to the feed ended and the cache was dropped
	SignalFeedClosed

	// Events

	// Event published
	SignalNewEvent

	// Event modified (title, date, location, ...)
	SignalEventInfoChanged

	// Event removed by its creator
	SignalEventDeleted

	// RSVP of a user written
	SignalRsvpChanged
)

func (t SignalType) String() string {
	switch t {
	case SignalSnapshot:
		return "snapshot"
	case SignalFeedClosed:
		return "feed_closed"
	case SignalNewEvent:
		return "new_event"
	case SignalEventInfoChanged:
		return "event_info_changed"
	case SignalEventDeleted:
		return "event_deleted"
	case SignalRsvpChanged:
		return "rsvp_changed"
	}
	return "unknown"
}

type Signal struct {
	Type SignalType
	Data map[string]interface{}
}
