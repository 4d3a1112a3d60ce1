package cqldao

import (
	"github.com/d3ce1t/areyouin-events/api"
)

const schemaEvent = `CREATE TABLE IF NOT EXISTS event (
	event_id text PRIMARY KEY,
	title text,
	description text,
	event_date text,
	event_time text,
	location text,
	has_coordinates boolean,
	latitude double,
	longitude double,
	category text,
	visibility text,
	created_by text,
	created_at bigint,
	rsvp_attending set<text>,
	rsvp_maybe set<text>,
	rsvp_declined set<text>
)`

// CreateSchema creates the tables used by this package if they don't exist.
func CreateSchema(session *GocqlSession) error {
	if err := checkSession(session); err != nil {
		return err
	}
	return session.Query(schemaEvent).Exec()
}

func checkSession(session *GocqlSession) error {
	if session == nil || !session.IsValid() {
		return ErrNoSession
	}
	return nil
}

func reconnectIfNeeded(session api.DbSession) {
	if session != nil && (!session.IsValid() || session.Closed()) {
		session.Connect()
	}
}
