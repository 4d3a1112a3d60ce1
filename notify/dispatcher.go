// Package notify delivers reminders to the user, through a platform
// notification when allowed and through a confirmation prompt otherwise.
package notify

import (
	"context"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
)

type Dispatcher struct {
	platform  api.NotificationPlatform
	prompter  api.Prompter
	navigator api.Navigator
	lang      Lang
	prompts   *TaskExecutor
}

// NewDispatcher returns a dispatcher. platform and prompter may be nil, in
// which case that channel is treated as unavailable.
func NewDispatcher(platform api.NotificationPlatform, prompter api.Prompter,
	navigator api.Navigator, lang Lang) *Dispatcher {
	return &Dispatcher{
		platform:  platform,
		prompter:  prompter,
		navigator: navigator,
		lang:      lang,
	}
}

// SetPromptExecutor makes fallback prompts run on ex instead of the calling
// goroutine.
func (d *Dispatcher) SetPromptExecutor(ex *TaskExecutor) {
	d.prompts = ex
}

// EnsurePermission asks for notification permission if it was never decided
// and reports whether notifications can be shown.
func (d *Dispatcher) EnsurePermission(ctx context.Context) bool {

	if d.platform == nil {
		return false
	}

	switch d.platform.Permission() {
	case api.Permission_GRANTED:
		return true
	case api.Permission_DENIED:
		return false
	}

	permission, err := d.platform.RequestPermission(ctx)
	if err != nil {
		logger.LogWf("Dispatcher: permission request failed: %v", err)
		return false
	}

	logger.LogIf("Dispatcher: notification permission %v", permission)

	return permission == api.Permission_GRANTED
}

// Dispatch shows reminder to the user. A refused permission or a missing
// platform is not an error: the user gets a prompt instead.
func (d *Dispatcher) Dispatch(ctx context.Context, reminder *api.ReminderDTO) error {

	if reminder == nil || reminder.EventId == "" {
		return api.ErrInvalidArg
	}

	if reminder.Kind != api.ReminderKind_DAY_BEFORE && reminder.Kind != api.ReminderKind_HOUR_BEFORE {
		return api.ErrInvalidArg
	}

	notification := createReminderNotification(reminder, d.lang)
	eventID := reminder.EventId
	notification.OnClick = func() {
		if d.navigator != nil {
			d.navigator.OpenEvent(eventID)
		}
	}

	if !d.EnsurePermission(ctx) {
		d.fallback(notification)
		return nil
	}

	if err := d.platform.Show(notification); err != nil {
		logger.LogWf("Dispatcher: show %v failed (%v), falling back to prompt", notification.Tag, err)
		d.fallback(notification)
		return nil
	}

	logger.LogDf("Dispatcher: %v reminder shown for %v", reminder.Kind, eventID)

	return nil
}

func (d *Dispatcher) fallback(notification *api.NotificationDTO) {

	if d.prompter == nil {
		logger.LogWf("Dispatcher: no channel available for %v", notification.Tag)
		return
	}

	body := promptBody(notification, d.lang)

	task := func() {
		ok, err := d.prompter.Confirm(notification.Title, body)
		if err != nil {
			logger.LogWf("Dispatcher: prompt for %v failed: %v", notification.Tag, err)
			return
		}
		if ok {
			notification.OnClick()
		}
	}

	if d.prompts == nil {
		task()
		return
	}

	d.prompts.Submit(task)
}
