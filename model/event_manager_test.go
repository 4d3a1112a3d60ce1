package model

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/auth"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *EventDraft {
	return &EventDraft{
		Title:       "Board games night",
		Description: "Bring your favourite game",
		Date:        "2024-06-14",
		Time:        "19:30",
		Location:    "Community center",
		Category:    api.Category_ENTERTAINMENT,
	}
}

func TestCreateEvent_Validation(t *testing.T) {

	env := newTestEnv(t, "alice", RsvpStrategy_ATOMIC)

	var tests = []struct {
		modify   func(d *EventDraft)
		expected error
	}{
		{func(d *EventDraft) {}, nil},
		{func(d *EventDraft) { d.Title = "   " }, ErrInvalidTitle},
		{func(d *EventDraft) { d.Title = strings.Repeat("a", EVENT_TITLE_MAX_LENGTH+1) }, ErrInvalidTitle},
		{func(d *EventDraft) { d.Title = strings.Repeat("ñ", EVENT_TITLE_MAX_LENGTH) }, nil},
		{func(d *EventDraft) { d.Description = "" }, ErrInvalidDescription},
		{func(d *EventDraft) { d.Description = strings.Repeat("a", EVENT_DESCRIPTION_MAX_LENGTH+1) }, ErrInvalidDescription},
		{func(d *EventDraft) { d.Date = "14/06/2024" }, ErrInvalidDate},
		{func(d *EventDraft) { d.Date = "2024-02-30" }, ErrInvalidDate},
		{func(d *EventDraft) { d.Time = "25:00" }, ErrInvalidTime},
		{func(d *EventDraft) { d.Time = "" }, ErrInvalidTime},
		{func(d *EventDraft) { d.Location = "" }, ErrInvalidLocation},
		{func(d *EventDraft) { d.Coordinates = &api.CoordinatesDTO{Lat: 91, Lng: 0} }, ErrInvalidCoordinates},
		{func(d *EventDraft) { d.Coordinates = &api.CoordinatesDTO{Lat: 40.4, Lng: -3.7} }, nil},
		{func(d *EventDraft) { d.Visibility = "friends" }, ErrInvalidVisibility},
		{func(d *EventDraft) { d.Category = "gaming" }, nil},
	}

	for i, test := range tests {
		draft := validDraft()
		test.modify(draft)
		if _, err := env.model.Manager.CreateEvent(context.Background(), draft); err != test.expected {
			t.Fatalf("test %v: Expected '%v' but got '%v'", i, test.expected, err)
		}
	}
}

func TestCreateEvent(t *testing.T) {

	env := newTestEnv(t, "alice", RsvpStrategy_ATOMIC)
	stream := env.model.Manager.Observe()

	draft := validDraft()
	draft.Title = "  Board games night  "
	draft.Category = "gaming"

	id, err := env.model.Manager.CreateEvent(context.Background(), draft)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	event := env.event(t, id)
	assert.Equal(t, "Board games night", event.Title())
	assert.Equal(t, "alice", event.CreatedBy())
	assert.True(t, testNow.Equal(event.CreatedAt()))
	assert.Equal(t, api.Category_OTHER, event.Category())
	assert.Equal(t, api.Visibility_PUBLIC, event.Visibility())
	assert.Equal(t, 0, event.Rsvps().Len())
	_, hasCoordinates := event.Coordinates()
	assert.False(t, hasCoordinates)

	signal := stream.Next().(*Signal)
	assert.Equal(t, SignalNewEvent, signal.Type)
	assert.Equal(t, id, signal.Data["EventID"])
}

func TestCreateEvent_PadsTime(t *testing.T) {

	env := newTestEnv(t, "alice", RsvpStrategy_ATOMIC)
	ctx := context.Background()

	draft := validDraft()
	draft.Time = "9:30"

	id, err := env.model.Manager.CreateEvent(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "09:30", env.event(t, id).Time())

	clock := "7:05"
	require.NoError(t, env.model.Manager.UpdateEvent(ctx, id, &EventUpdate{Time: &clock}))
	assert.Equal(t, "07:05", env.event(t, id).Time())
}

func TestCreateEvent_Unauthenticated(t *testing.T) {

	env := newTestEnv(t, "", RsvpStrategy_ATOMIC)

	id, err := env.model.Manager.CreateEvent(context.Background(), validDraft())
	assert.NoError(t, err)
	assert.Equal(t, "", id)
	assert.Equal(t, 0, len(env.model.Events.CurrentEvents()))
}

func TestUpdateEvent(t *testing.T) {

	env := newTestEnv(t, "alice", RsvpStrategy_ATOMIC)
	ctx := context.Background()

	id, err := env.model.Manager.CreateEvent(ctx, validDraft())
	require.NoError(t, err)

	title := "Chess night"
	clock := "20:00"
	private := api.Visibility_PRIVATE

	err = env.model.Manager.UpdateEvent(ctx, id, &EventUpdate{
		Title:       &title,
		Time:        &clock,
		Visibility:  &private,
		Coordinates: &api.CoordinatesDTO{Lat: 40.4, Lng: -3.7},
	})
	require.NoError(t, err)

	event := env.event(t, id)
	assert.Equal(t, "Chess night", event.Title())
	assert.Equal(t, "20:00", event.Time())
	assert.False(t, event.IsPublic())
	coords, ok := event.Coordinates()
	assert.True(t, ok)
	assert.Equal(t, Coordinates{Lat: 40.4, Lng: -3.7}, coords)

	require.NoError(t, env.model.Manager.UpdateEvent(ctx, id, &EventUpdate{ClearCoordinates: true}))
	_, ok = env.event(t, id).Coordinates()
	assert.False(t, ok)

	badDate := "tomorrow"
	assert.Equal(t, ErrInvalidDate, env.model.Manager.UpdateEvent(ctx, id, &EventUpdate{Date: &badDate}))
	assert.NoError(t, env.model.Manager.UpdateEvent(ctx, id, &EventUpdate{}))

	env.session.Login("bob")
	assert.Equal(t, ErrForbidden, env.model.Manager.UpdateEvent(ctx, id, &EventUpdate{Title: &title}))
	assert.Equal(t, api.ErrNotFound, env.model.Manager.UpdateEvent(ctx, "unknown", &EventUpdate{Title: &title}))

	env.session.Logout()
	assert.Equal(t, ErrNotAuthenticated, env.model.Manager.UpdateEvent(ctx, id, &EventUpdate{Title: &title}))
}

func TestDeleteEvent(t *testing.T) {

	env := newTestEnv(t, "alice", RsvpStrategy_ATOMIC)
	ctx := context.Background()

	id, err := env.model.Manager.CreateEvent(ctx, validDraft())
	require.NoError(t, err)

	env.session.Login("bob")
	assert.Equal(t, ErrForbidden, env.model.Manager.DeleteEvent(ctx, id))

	env.session.Login("alice")
	stream := env.model.Manager.Observe()
	require.NoError(t, env.model.Manager.DeleteEvent(ctx, id))

	_, found := env.model.Events.FindByID(id)
	assert.False(t, found)
	assert.Equal(t, SignalEventDeleted, stream.Next().(*Signal).Type)

	assert.Equal(t, api.ErrNotFound, env.model.Manager.DeleteEvent(ctx, id))
}

// A creates X, RSVPs attending, B answers maybe, then A switches to declined.
func TestEndToEnd_TwoUsers(t *testing.T) {

	for _, strategy := range []RsvpStrategy{RsvpStrategy_OVERWRITE, RsvpStrategy_ATOMIC} {

		env := newTestEnv(t, "A", strategy)
		ctx := context.Background()

		// B uses its own client on the same feed
		bClock := utils.NewManualClock(testNow)
		bModel := New(env.dao, auth.NewSessionFor("B"),
			WithClock(bClock), WithLocation(time.UTC), WithRsvpStrategy(strategy))
		bSub := bModel.Events.Subscribe()

		x, err := env.model.Manager.CreateEvent(ctx, validDraft())
		require.NoError(t, err)
		assert.Equal(t, 0, env.event(t, x).Rsvps().Len())

		require.NoError(t, env.model.Rsvps.SetRsvp(ctx, x, api.RsvpStatus_ATTENDING))
		assert.Equal(t, []string{"A"}, env.event(t, x).Rsvps().Members(api.RsvpStatus_ATTENDING))

		require.NoError(t, bModel.Rsvps.SetRsvp(ctx, x, api.RsvpStatus_MAYBE))
		rsvps := env.event(t, x).Rsvps()
		assert.Equal(t, []string{"A"}, rsvps.Members(api.RsvpStatus_ATTENDING))
		assert.Equal(t, []string{"B"}, rsvps.Members(api.RsvpStatus_MAYBE))

		require.NoError(t, env.model.Rsvps.SetRsvp(ctx, x, api.RsvpStatus_DECLINED))
		rsvps = env.event(t, x).Rsvps()
		assert.Equal(t, []string{}, rsvps.Members(api.RsvpStatus_ATTENDING))
		assert.Equal(t, []string{"B"}, rsvps.Members(api.RsvpStatus_MAYBE))
		assert.Equal(t, []string{"A"}, rsvps.Members(api.RsvpStatus_DECLINED))

		// Both clients converge on the same snapshot
		bEvent, ok := bModel.Events.FindByID(x)
		require.True(t, ok)
		assert.Equal(t, rsvps.AsDTO(), bEvent.Rsvps().AsDTO())

		bSub.Close()
	}
}
