package model

import (
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/utils"
)

type Option func(*options)

type options struct {
	clock    utils.Clock
	location *time.Location
	strategy RsvpStrategy
}

func WithClock(clock utils.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLocation sets the time zone used to read event dates and times.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

func WithRsvpStrategy(strategy RsvpStrategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// AyiModel groups the store and the components writing through the feed.
type AyiModel struct {
	Events  *EventStore
	Rsvps   *RsvpMutator
	Manager *EventManager
	Auth    api.Authenticator
	Clock   utils.Clock
}

func New(dao api.EventDAO, auth api.Authenticator, opts ...Option) *AyiModel {

	o := &options{
		clock:    utils.SystemClock{},
		location: time.Local,
		strategy: RsvpStrategy_ATOMIC,
	}

	for _, opt := range opts {
		opt(o)
	}

	store := NewEventStore(dao, o.clock, o.location)

	return &AyiModel{
		Events:  store,
		Rsvps:   NewRsvpMutator(store, dao, auth, o.clock, o.strategy),
		Manager: NewEventManager(store, dao, auth, o.clock),
		Auth:    auth,
		Clock:   o.clock,
	}
}
