package model

import (
	"testing"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStore_OrdersByDateDescending(t *testing.T) {

	feed := &feedDAO{}
	store := NewEventStore(feed, utils.NewManualClock(testNow), time.UTC)
	store.Subscribe()

	feed.fn(1, []*api.EventDTO{
		dto("a", "2024-06-10", "10:00"),
		dto("b", "2024-07-01", "09:00"),
		dto("c", "2024-06-10", "18:30"),
		dto("d", "2023-12-31", "23:59"),
		dto("e", "2024-06-10", "18:30"),
	})

	var ids []string
	for _, e := range store.CurrentEvents() {
		ids = append(ids, e.Id())
	}

	assert.Equal(t, []string{"b", "c", "e", "a", "d"}, ids)
}

func TestEventStore_OrdersUnpaddedTimes(t *testing.T) {

	feed := &feedDAO{}
	store := NewEventStore(feed, utils.NewManualClock(testNow), time.UTC)
	store.Subscribe()

	feed.fn(1, []*api.EventDTO{
		dto("a", "2024-06-10", "9:30"),
		dto("b", "2024-06-10", "21:00"),
		dto("c", "2024-06-10", "noon"),
		dto("d", "2024-06-10", "10:15"),
	})

	var ids []string
	for _, e := range store.CurrentEvents() {
		ids = append(ids, e.Id())
	}

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestEventStore_SnapshotReplacesCache(t *testing.T) {

	feed := &feedDAO{}
	store := NewEventStore(feed, utils.NewManualClock(testNow), time.UTC)
	store.Subscribe()

	assert.False(t, store.Loaded())
	assert.Equal(t, 0, len(store.CurrentEvents()))

	feed.fn(1, []*api.EventDTO{dto("a", "2024-06-10", "10:00"), dto("b", "2024-06-11", "10:00")})
	feed.fn(2, []*api.EventDTO{dto("b", "2024-06-11", "10:00")})

	_, found := store.FindByID("a")
	assert.False(t, found)

	b, found := store.FindByID("b")
	require.True(t, found)
	assert.Equal(t, "Event b", b.Title())
	assert.True(t, store.Loaded())
	assert.Equal(t, uint64(2), store.Seq())
}

func TestEventStore_DropsStaleSnapshots(t *testing.T) {

	feed := &feedDAO{}
	store := NewEventStore(feed, utils.NewManualClock(testNow), time.UTC)
	store.Subscribe()

	var tests = []struct {
		seq      uint64
		events   []*api.EventDTO
		expected int
	}{
		{3, []*api.EventDTO{dto("a", "2024-06-10", "10:00")}, 1},
		{2, []*api.EventDTO{}, 1},
		{3, []*api.EventDTO{}, 1},
		{4, []*api.EventDTO{dto("a", "2024-06-10", "10:00"), dto("b", "2024-06-10", "11:00")}, 2},
	}

	for i, test := range tests {
		feed.fn(test.seq, test.events)
		if got := len(store.CurrentEvents()); got != test.expected {
			t.Fatalf("test %v: Expected '%v' but got '%v'", i, test.expected, got)
		}
	}
}

func TestEventStore_CloseDropsCache(t *testing.T) {

	feed := &feedDAO{}
	store := NewEventStore(feed, utils.NewManualClock(testNow), time.UTC)
	sub := store.Subscribe()

	stream := store.Observe()

	feed.fn(1, []*api.EventDTO{dto("a", "2024-06-10", "10:00")})
	require.True(t, stream.HasNext())
	signal := stream.Next().(*Signal)
	assert.Equal(t, SignalSnapshot, signal.Type)
	assert.Equal(t, 1, signal.Data["Count"])

	sub.Close()
	sub.Close()

	assert.Equal(t, 1, feed.disposed)
	assert.True(t, sub.Closed())
	assert.False(t, store.Loaded())
	assert.Equal(t, 0, len(store.CurrentEvents()))

	require.True(t, stream.HasNext())
	assert.Equal(t, SignalFeedClosed, stream.Next().(*Signal).Type)

	// Late deliveries of the closed feed are ignored
	feed.fn(2, []*api.EventDTO{dto("a", "2024-06-10", "10:00")})
	assert.False(t, store.Loaded())
}

func TestEventStore_ResubscribeClosesPrevious(t *testing.T) {

	feed := &feedDAO{}
	store := NewEventStore(feed, utils.NewManualClock(testNow), time.UTC)

	first := store.Subscribe()
	oldFn := feed.fn
	oldFn(5, []*api.EventDTO{dto("a", "2024-06-10", "10:00")})

	second := store.Subscribe()
	assert.True(t, first.Closed())
	assert.False(t, second.Closed())

	// The new feed starts numbering again
	feed.fn(1, []*api.EventDTO{dto("b", "2024-06-10", "10:00")})
	_, found := store.FindByID("b")
	assert.True(t, found)

	oldFn(6, []*api.EventDTO{})
	assert.Equal(t, 1, len(store.CurrentEvents()))
}

func TestEventStore_LastSnapshotAge(t *testing.T) {

	clock := utils.NewManualClock(testNow)
	feed := &feedDAO{}
	store := NewEventStore(feed, clock, time.UTC)
	store.Subscribe()

	assert.Equal(t, time.Duration(-1), store.LastSnapshotAge())

	feed.fn(1, []*api.EventDTO{})
	assert.Equal(t, time.Duration(0), store.LastSnapshotAge())

	clock.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, store.LastSnapshotAge())
}

func TestEventStore_Queries(t *testing.T) {

	feed := &feedDAO{}
	store := NewEventStore(feed, utils.NewManualClock(testNow), time.UTC)
	store.Subscribe()

	past := dto("past", "2024-05-30", "20:00")
	past.CreatedBy = "alice"
	today := dto("today", "2024-06-01", "18:00")
	today.CreatedBy = "bob"
	today.Rsvps = api.RsvpsDTO{Attending: []string{"alice"}}
	later := dto("later", "2024-06-20", "09:00")
	later.CreatedBy = "alice"
	later.Rsvps = api.RsvpsDTO{Maybe: []string{"alice"}}
	broken := dto("broken", "someday", "")

	feed.fn(1, []*api.EventDTO{past, today, later, broken})

	ids := func(events []*Event) []string {
		result := make([]string, 0)
		for _, e := range events {
			result = append(result, e.Id())
		}
		return result
	}

	assert.Equal(t, []string{"later", "past"}, ids(store.UserEvents("alice")))
	assert.Equal(t, []string{"later", "today"}, ids(store.UpcomingEvents(testNow)))
	assert.Equal(t, []string{"broken", "past"}, ids(store.PastEvents(testNow)))
	assert.Equal(t, []string{"today"}, ids(store.AttendingEvents("alice")))

	event, _ := store.FindByID("today")
	instant, ok := event.Instant()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), instant)
	assert.Equal(t, api.Category_OTHER, event.Category())
	assert.True(t, event.IsPublic())

	status, ok := event.RsvpOf("alice")
	assert.True(t, ok)
	assert.Equal(t, api.RsvpStatus_ATTENDING, status)
}
