package model

import (
	"context"
	"testing"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/auth"
	"github.com/d3ce1t/areyouin-events/memdao"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	dao     *memdao.EventDAO
	clock   *utils.ManualClock
	session *auth.Session
	model   *AyiModel
	sub     *Subscription
}

func newTestEnv(t *testing.T, userID string, strategy RsvpStrategy) *testEnv {

	env := &testEnv{
		dao:     memdao.NewEventDAO(),
		clock:   utils.NewManualClock(testNow),
		session: auth.NewSession(),
	}

	if userID != "" {
		env.session.Login(userID)
	}

	env.model = New(env.dao, env.session,
		WithClock(env.clock),
		WithLocation(time.UTC),
		WithRsvpStrategy(strategy))

	env.sub = env.model.Events.Subscribe()
	t.Cleanup(env.sub.Close)

	return env
}

// seed writes an event straight to the dao, bypassing validation.
func (env *testEnv) seed(t *testing.T, title string, date string, clock string, createdBy string) string {
	id, err := env.dao.Insert(context.Background(), &api.EventDTO{
		Title:       title,
		Description: "Description of " + title,
		Date:        date,
		Time:        clock,
		Location:    "Main square",
		Category:    api.Category_SOCIAL,
		Visibility:  api.Visibility_PUBLIC,
		CreatedBy:   createdBy,
		CreatedAt:   utils.TimeToMillis(testNow),
	})
	require.NoError(t, err)
	return id
}

func (env *testEnv) event(t *testing.T, id string) *Event {
	event, ok := env.model.Events.FindByID(id)
	require.True(t, ok, "event %v not in store", id)
	return event
}

// feedDAO hands the snapshot callback to the test so it can drive the feed.
type feedDAO struct {
	api.EventDAO
	fn       api.SnapshotFunc
	disposed int
}

func (f *feedDAO) Subscribe(fn api.SnapshotFunc) func() {
	f.fn = fn
	return func() {
		f.disposed++
	}
}

func dto(id string, date string, clock string) *api.EventDTO {
	return &api.EventDTO{
		Id:    id,
		Title: "Event " + id,
		Date:  date,
		Time:  clock,
	}
}
