package notify

import (
	"fmt"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/twinj/uuid"
)

// createReminderNotification builds the notification shown for r. Reminders
// stay on screen until dismissed.
func createReminderNotification(r *api.ReminderDTO, lang Lang) *api.NotificationDTO {

	var title, body string

	switch r.Kind {
	case api.ReminderKind_DAY_BEFORE:
		title = fmt.Sprintf(T(lang, ReminderDayBeforeTitle), r.EventTitle)
		body = fmt.Sprintf(T(lang, ReminderDayBeforeBody), r.EventTitle, r.EventTime, r.EventLocation)
	case api.ReminderKind_HOUR_BEFORE:
		title = fmt.Sprintf(T(lang, ReminderHourBeforeTitle), r.EventTitle)
		body = fmt.Sprintf(T(lang, ReminderHourBeforeBody), r.EventTitle, r.EventLocation)
	}

	return &api.NotificationDTO{
		Id:         uuid.NewV4().String(),
		Title:      title,
		Body:       body,
		Tag:        r.Tag(),
		EventId:    r.EventId,
		Persistent: true,
		ExpiresAt:  r.StartsAt,
	}
}

func promptBody(n *api.NotificationDTO, lang Lang) string {
	return n.Body + "\n\n" + T(lang, ReminderPromptSuffix)
}
