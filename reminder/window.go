package reminder

import (
	"time"

	"github.com/d3ce1t/areyouin-events/api"
)

const (
	DefaultPeriod         = 5 * time.Minute
	DefaultDayBeforeLead  = 24 * time.Hour
	DefaultHourBeforeLead = time.Hour
)

// classify returns the reminder due for an event starting delta from now.
// Windows are (hourLead, dayLead] for the day before and (0, hourLead] for
// the hour before. Started events and events beyond dayLead get none.
func classify(delta time.Duration, dayLead time.Duration, hourLead time.Duration) (api.ReminderKind, bool) {

	if delta <= 0 {
		return 0, false
	}

	if delta <= hourLead {
		return api.ReminderKind_HOUR_BEFORE, true
	}

	if delta <= dayLead {
		return api.ReminderKind_DAY_BEFORE, true
	}

	return 0, false
}
