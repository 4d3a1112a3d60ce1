package model

import (
	"context"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/imkira/go-observer"
)

type RsvpStrategy string

const (
	// Rebuild the three buckets from the cached event and write them back
	// whole. Two users answering at once from the same snapshot can lose one
	// of the answers.
	RsvpStrategy_OVERWRITE RsvpStrategy = "overwrite"

	// Let the store move the user between buckets in a single write.
	RsvpStrategy_ATOMIC RsvpStrategy = "atomic"
)

func ParseRsvpStrategy(value string) (RsvpStrategy, error) {
	switch RsvpStrategy(value) {
	case RsvpStrategy_OVERWRITE:
		return RsvpStrategy_OVERWRITE, nil
	case RsvpStrategy_ATOMIC, "":
		return RsvpStrategy_ATOMIC, nil
	}
	return "", ErrInvalidStrategy
}

// RsvpMutator records the answer of the signed in user to an event.
type RsvpMutator struct {
	store    *EventStore
	dao      api.EventDAO
	auth     api.Authenticator
	clock    utils.Clock
	strategy RsvpStrategy
	signal   observer.Property
}

func NewRsvpMutator(store *EventStore, dao api.EventDAO, auth api.Authenticator,
	clock utils.Clock, strategy RsvpStrategy) *RsvpMutator {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if strategy == "" {
		strategy = RsvpStrategy_ATOMIC
	}
	return &RsvpMutator{
		store:    store,
		dao:      dao,
		auth:     auth,
		clock:    clock,
		strategy: strategy,
		signal:   observer.NewProperty(nil),
	}
}

func (m *RsvpMutator) Strategy() RsvpStrategy {
	return m.strategy
}

// Observe returns a stream of *Signal of type SignalRsvpChanged.
func (m *RsvpMutator) Observe() observer.Stream {
	return m.signal.Observe()
}

// SetRsvp moves the current user to status, removing it from the other two
// buckets. Without a signed in user, or for an event the store doesn't know,
// nothing is written. The store is not updated here; the change shows up
// with the next snapshot of the feed.
func (m *RsvpMutator) SetRsvp(ctx context.Context, eventID string, status api.RsvpStatus) error {

	userID, ok := m.auth.CurrentUserID()
	if !ok || userID == "" {
		logger.LogDf("RsvpMutator: rsvp to %v ignored, no user signed in", eventID)
		return nil
	}

	if !status.IsValid() {
		return api.ErrInvalidRsvpStatus
	}

	event, found := m.store.FindByID(eventID)
	if !found {
		logger.LogDf("RsvpMutator: rsvp to %v ignored, event not in cache", eventID)
		return nil
	}

	if event.IsPast(m.clock.Now()) {
		return ErrEventNotWritable
	}

	previous, hadPrevious := event.RsvpOf(userID)

	var err error

	switch m.strategy {
	case RsvpStrategy_OVERWRITE:
		next := event.Rsvps().With(userID, status)
		err = m.dao.Update(ctx, eventID, map[string]interface{}{
			api.FieldRsvps: next.AsDTO(),
		})
	default:
		err = m.dao.SetRsvp(ctx, eventID, userID, status)
	}

	if err != nil {
		logger.LogEf("RsvpMutator: rsvp of %v to %v failed: %v", userID, eventID, err)
		return err
	}

	data := map[string]interface{}{
		"EventID": eventID,
		"UserID":  userID,
		"Status":  status,
	}
	if hadPrevious {
		data["Previous"] = previous
	}

	m.signal.Update(&Signal{Type: SignalRsvpChanged, Data: data})

	return nil
}
