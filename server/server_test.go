package main

import (
	"context"
	"testing"
	"time"

	"github.com/d3ce1t/areyouin-events/reminder"
	"github.com/d3ce1t/areyouin-events/server/shell"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ shell.Server = (*Server)(nil)

func newMemoryServer(t *testing.T) *Server {
	config, err := parseConfig([]byte("memory_mode: true\nrsvp_strategy: overwrite\n"))
	require.NoError(t, err)
	server, err := NewServer(context.Background(), config)
	require.NoError(t, err)
	return server
}

func TestNewServer_MemoryMode(t *testing.T) {

	server := newMemoryServer(t)

	assert.NotNil(t, server.Console())
	assert.Nil(t, server.Push())
	assert.Equal(t, "overwrite", string(server.Model().Rsvps.Strategy()))
	assert.Equal(t, reminder.StateIdle, server.Scheduler().State())
	assert.Equal(t, BUILD_VERSION, server.Version())
}

func TestNewServer_PushEnabled(t *testing.T) {

	config, err := parseConfig([]byte("memory_mode: true\npush_enabled: true\ngcm_api_key: key\n"))
	require.NoError(t, err)

	server, err := NewServer(context.Background(), config)
	require.NoError(t, err)

	assert.Nil(t, server.Console())
	assert.NotNil(t, server.Push())
}

func TestServer_RunWithDemoEvents(t *testing.T) {

	server := newMemoryServer(t)
	server.Session().Login("user1")

	ids, err := initDemoEvents(context.Background(), server.DAO(), utils.SystemClock{}, "user1")
	require.NoError(t, err)
	require.Len(t, ids, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx)
	}()

	// The first pass reminds the lunch tomorrow and the meetup in 45 minutes
	assert.Eventually(t, func() bool {
		return len(server.Console().Visible()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Len(t, server.Model().Events.AttendingEvents("user1"), 3)
	assert.Len(t, server.Model().Events.PastEvents(time.Now()), 1)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Equal(t, reminder.StateStopped, server.Scheduler().State())
	assert.False(t, server.Model().Events.Loaded())
}
