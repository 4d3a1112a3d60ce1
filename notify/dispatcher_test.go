package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	permission api.NotificationPermission
	answer     api.NotificationPermission
	showErr    error
	requests   int
	shown      []*api.NotificationDTO
}

func (p *fakePlatform) Permission() api.NotificationPermission {
	return p.permission
}

func (p *fakePlatform) RequestPermission(ctx context.Context) (api.NotificationPermission, error) {
	p.requests++
	p.permission = p.answer
	return p.permission, nil
}

func (p *fakePlatform) Show(n *api.NotificationDTO) error {
	if p.showErr != nil {
		return p.showErr
	}
	p.shown = append(p.shown, n)
	return nil
}

type fakePrompter struct {
	mutex  sync.Mutex
	answer bool
	err    error
	titles []string
	bodies []string
}

func (p *fakePrompter) Confirm(title string, body string) (bool, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.titles = append(p.titles, title)
	p.bodies = append(p.bodies, body)
	return p.answer, p.err
}

func (p *fakePrompter) count() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.titles)
}

func dayBefore() *api.ReminderDTO {
	return &api.ReminderDTO{
		EventId:       "x1",
		EventTitle:    "Picnic",
		EventTime:     "12:00",
		EventLocation: "Retiro park",
		StartsAt:      time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
		Kind:          api.ReminderKind_DAY_BEFORE,
	}
}

func TestDispatch_PermissionStates(t *testing.T) {

	var tests = []struct {
		permission api.NotificationPermission
		answer     api.NotificationPermission
		shown      int
		prompted   int
		requests   int
	}{
		{api.Permission_GRANTED, api.Permission_GRANTED, 1, 0, 0},
		{api.Permission_UNDETERMINED, api.Permission_GRANTED, 1, 0, 1},
		{api.Permission_UNDETERMINED, api.Permission_DENIED, 0, 1, 1},
		{api.Permission_DENIED, api.Permission_GRANTED, 0, 1, 0},
	}

	for i, test := range tests {

		platform := &fakePlatform{permission: test.permission, answer: test.answer}
		prompter := &fakePrompter{}
		d := NewDispatcher(platform, prompter, NewRouteNavigator(), EN)

		err := d.Dispatch(context.Background(), dayBefore())
		require.NoError(t, err)

		if len(platform.shown) != test.shown || prompter.count() != test.prompted || platform.requests != test.requests {
			t.Fatalf("test %v: Expected '%v/%v/%v' but got '%v/%v/%v'", i,
				test.shown, test.prompted, test.requests,
				len(platform.shown), prompter.count(), platform.requests)
		}
	}
}

func TestDispatch_NotificationContent(t *testing.T) {

	platform := &fakePlatform{permission: api.Permission_GRANTED}
	navigator := NewRouteNavigator()
	d := NewDispatcher(platform, nil, navigator, EN)

	require.NoError(t, d.Dispatch(context.Background(), dayBefore()))

	hourBefore := dayBefore()
	hourBefore.Kind = api.ReminderKind_HOUR_BEFORE
	require.NoError(t, d.Dispatch(context.Background(), hourBefore))

	require.Len(t, platform.shown, 2)

	first := platform.shown[0]
	assert.Equal(t, "Event Reminder: Picnic", first.Title)
	assert.Equal(t, "Your event \"Picnic\" is tomorrow at 12:00. Location: Retiro park", first.Body)
	assert.Equal(t, "event-x1", first.Tag)
	assert.True(t, first.Persistent)
	assert.NotEmpty(t, first.Id)

	second := platform.shown[1]
	assert.Equal(t, "Event Starting Soon: Picnic", second.Title)
	assert.Equal(t, "Your event \"Picnic\" starts in less than an hour at Retiro park", second.Body)
	assert.Equal(t, first.Tag, second.Tag)

	second.OnClick()
	assert.Equal(t, "/event/x1", navigator.Current())
}

func TestDispatch_Fallback(t *testing.T) {

	var tests = []struct {
		platform api.NotificationPlatform
		answer   bool
		err      error
		opened   string
	}{
		{nil, true, nil, "/event/x1"},
		{nil, false, nil, ""},
		{nil, true, errors.New("terminal closed"), ""},
		{&fakePlatform{permission: api.Permission_GRANTED, showErr: api.ErrPlatformUnavailable}, true, nil, "/event/x1"},
	}

	for i, test := range tests {

		prompter := &fakePrompter{answer: test.answer, err: test.err}
		navigator := NewRouteNavigator()
		d := NewDispatcher(test.platform, prompter, navigator, EN)

		// Prompt errors are never returned
		require.NoError(t, d.Dispatch(context.Background(), dayBefore()))

		if navigator.Current() != test.opened {
			t.Fatalf("test %v: Expected '%v' but got '%v'", i, test.opened, navigator.Current())
		}

		require.Equal(t, 1, prompter.count())
		assert.Equal(t, "Event Reminder: Picnic", prompter.titles[0])
		assert.True(t, strings.HasSuffix(prompter.bodies[0], "\n\nClick OK to view event details."))
	}
}

func TestDispatch_NoChannel(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, EN)
	assert.NoError(t, d.Dispatch(context.Background(), dayBefore()))
	assert.False(t, d.EnsurePermission(context.Background()))
}

func TestDispatch_InvalidReminder(t *testing.T) {

	d := NewDispatcher(nil, nil, nil, EN)

	assert.Equal(t, api.ErrInvalidArg, d.Dispatch(context.Background(), nil))
	assert.Equal(t, api.ErrInvalidArg, d.Dispatch(context.Background(), &api.ReminderDTO{EventId: "x"}))
}

func TestDispatch_Spanish(t *testing.T) {

	platform := &fakePlatform{permission: api.Permission_GRANTED}
	d := NewDispatcher(platform, nil, nil, ParseLang("es-ES"))

	require.NoError(t, d.Dispatch(context.Background(), dayBefore()))
	assert.Equal(t, "Recordatorio: Picnic", platform.shown[0].Title)
}

func TestDispatch_PromptOnExecutor(t *testing.T) {

	ex := NewTaskExecutor()
	ex.Start()
	defer ex.Stop()

	prompter := &fakePrompter{answer: true}
	navigator := NewRouteNavigator()
	d := NewDispatcher(nil, prompter, navigator, EN)
	d.SetPromptExecutor(ex)

	require.NoError(t, d.Dispatch(context.Background(), dayBefore()))

	assert.Eventually(t, func() bool {
		return navigator.Current() == "/event/x1"
	}, time.Second, 10*time.Millisecond)
}

func TestConsolePlatform_CollapsesByTag(t *testing.T) {

	out := &bytes.Buffer{}
	platform := NewConsolePlatform(out, api.Permission_GRANTED)
	navigator := NewRouteNavigator()
	d := NewDispatcher(platform, nil, navigator, EN)

	assert.Equal(t, api.Permission_UNDETERMINED, platform.Permission())

	require.NoError(t, d.Dispatch(context.Background(), dayBefore()))
	require.NoError(t, d.Dispatch(context.Background(), dayBefore()))

	other := dayBefore()
	other.EventId = "x2"
	require.NoError(t, d.Dispatch(context.Background(), other))

	assert.Equal(t, api.Permission_GRANTED, platform.Permission())
	require.Len(t, platform.Visible(), 2)
	assert.Equal(t, "event-x1", platform.Visible()[0].Tag)
	assert.Contains(t, out.String(), "[event-x2] Event Reminder: Picnic")

	assert.True(t, platform.Click("event-x2"))
	assert.Equal(t, "/event/x2", navigator.Current())
	assert.True(t, platform.Dismiss("event-x1"))
	assert.False(t, platform.Dismiss("event-x1"))
	assert.Len(t, platform.Visible(), 0)
}

func TestConsolePrompter(t *testing.T) {

	var tests = []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"ok", true},
	}

	for i, test := range tests {
		out := &bytes.Buffer{}
		p := NewConsolePrompter(strings.NewReader(test.input), out)
		ok, err := p.Confirm("Title", "Body")
		if err != nil || ok != test.expected {
			t.Fatalf("test %v: Expected '%v' but got '%v' (%v)", i, test.expected, ok, err)
		}
		assert.Equal(t, "Title\n\nBody\n[y/N] ", out.String())
	}

	_, err := NewConsolePrompter(strings.NewReader(""), &bytes.Buffer{}).Confirm("T", "B")
	assert.Error(t, err)
}
