package model

import (
	"sort"
	"sync"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/imkira/go-observer"
)

// EventStore mirrors the event feed in memory. Every snapshot replaces the
// whole cache; snapshots with a sequence number not newer than the current
// one are dropped.
type EventStore struct {
	dao    api.EventDAO
	clock  utils.Clock
	loc    *time.Location
	signal observer.Property

	mutex      sync.RWMutex
	current    *Subscription
	seq        uint64
	loaded     bool
	receivedAt time.Time
	events     []*Event
	byID       map[string]*Event
}

func NewEventStore(dao api.EventDAO, clock utils.Clock, loc *time.Location) *EventStore {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &EventStore{
		dao:    dao,
		clock:  clock,
		loc:    loc,
		signal: observer.NewProperty(nil),
		events: make([]*Event, 0),
		byID:   make(map[string]*Event),
	}
}

// Subscription is the live link between a store and the feed. Closing it
// drops the cache.
type Subscription struct {
	store   *EventStore
	mutex   sync.Mutex
	closed  bool
	dispose func()
}

// Subscribe opens the feed. Any previous subscription of this store is closed
// first, so there is at most one live feed per store.
func (s *EventStore) Subscribe() *Subscription {

	sub := &Subscription{store: s}

	s.mutex.Lock()
	previous := s.current
	s.current = sub
	// A new feed numbers its snapshots from scratch
	s.seq = 0
	s.mutex.Unlock()

	if previous != nil {
		previous.Close()
	}

	dispose := s.dao.Subscribe(func(seq uint64, events []*api.EventDTO) {
		s.apply(sub, seq, events)
	})

	sub.setDispose(dispose)

	logger.LogD("EventStore: subscribed to feed")

	return sub
}

func (sub *Subscription) setDispose(dispose func()) {
	sub.mutex.Lock()
	if sub.closed {
		sub.mutex.Unlock()
		dispose()
		return
	}
	sub.dispose = dispose
	sub.mutex.Unlock()
}

// Close stops delivery and empties the store. Calling it more than once is
// harmless.
func (sub *Subscription) Close() {

	sub.mutex.Lock()
	if sub.closed {
		sub.mutex.Unlock()
		return
	}
	sub.closed = true
	dispose := sub.dispose
	sub.mutex.Unlock()

	if dispose != nil {
		dispose()
	}

	sub.store.detach(sub)
}

func (sub *Subscription) Closed() bool {
	defer sub.mutex.Unlock()
	sub.mutex.Lock()
	return sub.closed
}

func (s *EventStore) detach(sub *Subscription) {

	s.mutex.Lock()
	if s.current != sub {
		s.mutex.Unlock()
		return
	}
	s.current = nil
	s.seq = 0
	s.loaded = false
	s.receivedAt = time.Time{}
	s.events = make([]*Event, 0)
	s.byID = make(map[string]*Event)
	s.mutex.Unlock()

	logger.LogD("EventStore: feed closed, cache dropped")

	s.signal.Update(&Signal{Type: SignalFeedClosed})
}

func (s *EventStore) apply(sub *Subscription, seq uint64, dtos []*api.EventDTO) {

	byID := make(map[string]*Event, len(dtos))
	for _, dto := range dtos {
		if dto == nil || dto.Id == "" {
			continue
		}
		byID[dto.Id] = newEventFromDTO(dto, s.loc)
	}

	events := make([]*Event, 0, len(byID))
	for _, event := range byID {
		events = append(events, event)
	}
	sortEvents(events)

	s.mutex.Lock()

	if s.current != sub {
		s.mutex.Unlock()
		logger.LogD("EventStore: snapshot for a closed subscription ignored")
		return
	}

	if seq <= s.seq {
		current := s.seq
		s.mutex.Unlock()
		logger.LogDf("EventStore: stale snapshot %v dropped (current %v)", seq, current)
		return
	}

	s.seq = seq
	s.loaded = true
	s.receivedAt = s.clock.Now()
	s.events = events
	s.byID = byID

	s.mutex.Unlock()

	s.signal.Update(&Signal{
		Type: SignalSnapshot,
		Data: map[string]interface{}{
			"Seq":   seq,
			"Count": len(events),
		},
	})
}

// Observe returns a stream of *Signal emitted by the store.
func (s *EventStore) Observe() observer.Stream {
	return s.signal.Observe()
}

func (s *EventStore) Loaded() bool {
	defer s.mutex.RUnlock()
	s.mutex.RLock()
	return s.loaded
}

func (s *EventStore) Seq() uint64 {
	defer s.mutex.RUnlock()
	s.mutex.RLock()
	return s.seq
}

// LastSnapshotAge is the time elapsed since the last accepted snapshot, or -1
// if none was received yet. A growing age is how a stalled feed shows up.
func (s *EventStore) LastSnapshotAge() time.Duration {
	defer s.mutex.RUnlock()
	s.mutex.RLock()
	if !s.loaded {
		return -1
	}
	return s.clock.Now().Sub(s.receivedAt)
}

// CurrentEvents returns the cached events ordered by date descending.
func (s *EventStore) CurrentEvents() []*Event {
	defer s.mutex.RUnlock()
	s.mutex.RLock()
	events := make([]*Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *EventStore) FindByID(eventID string) (*Event, bool) {
	defer s.mutex.RUnlock()
	s.mutex.RLock()
	event, ok := s.byID[eventID]
	return event, ok
}

// UserEvents returns the events created by userID.
func (s *EventStore) UserEvents(userID string) []*Event {
	return s.filter(func(e *Event) bool {
		return e.CreatedBy() == userID
	})
}

func (s *EventStore) UpcomingEvents(now time.Time) []*Event {
	return s.filter(func(e *Event) bool {
		return !e.IsPast(now)
	})
}

func (s *EventStore) PastEvents(now time.Time) []*Event {
	return s.filter(func(e *Event) bool {
		return e.IsPast(now)
	})
}

// AttendingEvents returns the events where userID answered attending.
func (s *EventStore) AttendingEvents(userID string) []*Event {
	return s.filter(func(e *Event) bool {
		return e.Rsvps().Has(userID, api.RsvpStatus_ATTENDING)
	})
}

func (s *EventStore) filter(keep func(e *Event) bool) []*Event {
	defer s.mutex.RUnlock()
	s.mutex.RLock()
	events := make([]*Event, 0)
	for _, e := range s.events {
		if keep(e) {
			events = append(events, e)
		}
	}
	return events
}

// Date descending, then time descending, then id ascending. Dates compare as
// stored text. Times compare by start instant, since remote data may carry
// unpadded clocks like "9:30"; malformed times go after valid ones.
func sortEvents(events []*Event) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.date != b.date {
			return a.date > b.date
		}
		ai, aok := a.Instant()
		bi, bok := b.Instant()
		switch {
		case aok && bok:
			if !ai.Equal(bi) {
				return ai.After(bi)
			}
		case aok != bok:
			return aok
		case a.time != b.time:
			return a.time > b.time
		}
		return a.id < b.id
	})
}
