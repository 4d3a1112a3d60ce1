package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/auth"
	"github.com/d3ce1t/areyouin-events/utils"
	gcm "github.com/google/go-gcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGcmPlatform_Permission(t *testing.T) {

	session := auth.NewSessionFor("alice")
	clock := utils.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	disabled := NewGcmPlatform("key", false, session, clock)
	assert.Equal(t, api.Permission_DENIED, disabled.Permission())

	noKey := NewGcmPlatform("", true, session, clock)
	assert.Equal(t, api.Permission_DENIED, noKey.Permission())

	p := NewGcmPlatform("key", true, session, clock)
	assert.Equal(t, api.Permission_UNDETERMINED, p.Permission())

	p.RegisterToken("alice", "token-a")
	permission, err := p.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.Permission_GRANTED, permission)

	session.Login("bob")
	assert.Equal(t, api.Permission_UNDETERMINED, p.Permission())

	session.Login("alice")
	p.RegisterToken("alice", "")
	assert.Equal(t, api.Permission_UNDETERMINED, p.Permission())
}

func TestGcmPlatform_Show(t *testing.T) {

	session := auth.NewSessionFor("alice")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := utils.NewManualClock(now)

	p := NewGcmPlatform("key", true, session, clock)
	p.RegisterToken("alice", "token-a")

	var sent []gcm.HttpMessage
	p.send = func(apiKey string, message gcm.HttpMessage) (*gcm.HttpResponse, error) {
		assert.Equal(t, "key", apiKey)
		sent = append(sent, message)
		return &gcm.HttpResponse{Success: 1}, nil
	}

	n := createReminderNotification(dayBefore(), EN)
	require.NoError(t, p.Show(n))

	require.Len(t, sent, 1)
	message := sent[0]
	assert.Equal(t, "token-a", message.To)
	assert.Equal(t, "event-x1", message.CollapseKey)
	assert.Equal(t, "event-x1", message.Notification.Tag)
	assert.Equal(t, "/event/x1", message.Notification.ClickAction)
	assert.Equal(t, "Event Reminder: Picnic", message.Notification.Title)
	require.NotNil(t, message.TimeToLive)
	assert.Equal(t, uint(24*3600), *message.TimeToLive)

	// Expired reminders are not pushed
	clock.Set(now.Add(25 * time.Hour))
	require.NoError(t, p.Show(n))
	assert.Len(t, sent, 1)

	session.Logout()
	assert.Equal(t, api.ErrPlatformUnavailable, p.Show(n))
}

func TestGcmPlatform_SendError(t *testing.T) {

	session := auth.NewSessionFor("alice")
	p := NewGcmPlatform("key", true, session, nil)
	p.RegisterToken("alice", "token-a")

	p.send = func(apiKey string, message gcm.HttpMessage) (*gcm.HttpResponse, error) {
		return nil, errors.New("connection refused")
	}

	n := &api.NotificationDTO{Title: "t", Body: "b", Tag: "event-1", EventId: "1"}
	assert.Error(t, p.Show(n))

	p.send = func(apiKey string, message gcm.HttpMessage) (*gcm.HttpResponse, error) {
		return &gcm.HttpResponse{Failure: 1, Error: "NotRegistered"}, nil
	}
	assert.Error(t, p.Show(n))
}
