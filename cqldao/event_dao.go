package cqldao

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/idgen"
	"github.com/d3ce1t/areyouin-events/utils"
)

const (
	queryCols = `event_id, title, description, event_date, event_time, location,
		has_coordinates, latitude, longitude, category, visibility, created_by, created_at,
		rsvp_attending, rsvp_maybe, rsvp_declined`
)

var rsvpColumns = map[api.RsvpStatus]string{
	api.RsvpStatus_ATTENDING: "rsvp_attending",
	api.RsvpStatus_MAYBE:     "rsvp_maybe",
	api.RsvpStatus_DECLINED:  "rsvp_declined",
}

type EventDAO struct {
	session *GocqlSession
	feed    *eventFeed
	ids     *idgen.Generator
}

// NewEventDAO builds a DAO on top of session. Live snapshots are produced by
// polling the event table, see eventFeed.
func NewEventDAO(session api.DbSession, opts ...FeedOption) *EventDAO {
	reconnectIfNeeded(session)
	d := &EventDAO{
		session: session.(*GocqlSession),
		ids:     idgen.New(3),
	}
	d.feed = newEventFeed(d.LoadAll, opts...)
	return d
}

func (d *EventDAO) Subscribe(fn api.SnapshotFunc) (dispose func()) {
	return d.feed.subscribe(fn)
}

// Close stops the polling goroutine.
func (d *EventDAO) Close() {
	d.feed.close()
}

func (d *EventDAO) Insert(ctx context.Context, event *api.EventDTO) (string, error) {

	if err := checkSession(d.session); err != nil {
		return "", err
	}

	if event == nil {
		return "", ErrIllegalArguments
	}

	id := event.Id
	if id == "" {
		id = d.ids.NextString()
	}

	stmt := `INSERT INTO event (` + queryCols + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	lat, lng, hasCoords := coordinatesToRow(event.Coordinates)

	err := d.session.Query(stmt, id, event.Title, event.Description, event.Date, event.Time,
		event.Location, hasCoords, lat, lng, string(event.Category), string(event.Visibility),
		event.CreatedBy, event.CreatedAt, event.Rsvps.Attending, event.Rsvps.Maybe,
		event.Rsvps.Declined).WithContext(ctx).Exec()

	if err != nil {
		return "", convErr(err)
	}

	d.feed.refresh()

	return id, nil
}

// Update overwrites the given fields with a light weight transaction so that
// a missing event isn't resurrected by the write.
func (d *EventDAO) Update(ctx context.Context, eventID string, fields map[string]interface{}) error {

	if err := checkSession(d.session); err != nil {
		return err
	}

	stmt, values, err := buildUpdate(eventID, fields)
	if err != nil {
		return err
	}

	applied, err := d.session.Query(stmt, values...).WithContext(ctx).ScanCAS()
	if err != nil {
		return convErr(err)
	}

	if !applied {
		return api.ErrNotFound
	}

	d.feed.refresh()

	return nil
}

// SetRsvp relies on Cassandra collection updates: adding to one set and
// removing from the others happen in the same row mutation, with no read.
func (d *EventDAO) SetRsvp(ctx context.Context, eventID string, userID string, status api.RsvpStatus) error {

	if err := checkSession(d.session); err != nil {
		return err
	}

	stmt, values, err := buildSetRsvp(eventID, userID, status)
	if err != nil {
		return err
	}

	applied, err := d.session.Query(stmt, values...).WithContext(ctx).ScanCAS()
	if err != nil {
		return convErr(err)
	}

	if !applied {
		return api.ErrNotFound
	}

	d.feed.refresh()

	return nil
}

func (d *EventDAO) Delete(ctx context.Context, eventID string) error {

	if err := checkSession(d.session); err != nil {
		return err
	}

	stmt := `DELETE FROM event WHERE event_id = ? IF EXISTS`

	applied, err := d.session.Query(stmt, eventID).WithContext(ctx).ScanCAS()
	if err != nil {
		return convErr(err)
	}

	if !applied {
		return api.ErrNotFound
	}

	d.feed.refresh()

	return nil
}

func (d *EventDAO) LoadEvents(ctx context.Context, eventIDs ...string) ([]*api.EventDTO, error) {

	if err := checkSession(d.session); err != nil {
		return nil, err
	}

	if len(eventIDs) == 0 {
		return nil, api.ErrInvalidArg
	}

	stmt := fmt.Sprintf("SELECT %v FROM event WHERE event_id IN (%v)", queryCols, utils.GenParams(len(eventIDs)))
	values := make([]interface{}, 0, len(eventIDs))
	for _, id := range eventIDs {
		values = append(values, id)
	}

	return d.findAll(ctx, stmt, values...)
}

// LoadAll reads every event. Sorted by id so that equal tables give equal
// snapshots.
func (d *EventDAO) LoadAll(ctx context.Context) ([]*api.EventDTO, error) {

	if err := checkSession(d.session); err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("SELECT %v FROM event", queryCols)
	return d.findAll(ctx, stmt)
}

func (d *EventDAO) findAll(ctx context.Context, stmt string, values ...interface{}) ([]*api.EventDTO, error) {

	iter := d.session.Query(stmt, values...).WithContext(ctx).Iter()

	var events []*api.EventDTO
	var id, title, description, date, clock, location, category, visibility, createdBy string
	var hasCoords bool
	var lat, lng float64
	var createdAt int64
	var attending, maybe, declined []string

	for iter.Scan(&id, &title, &description, &date, &clock, &location, &hasCoords, &lat, &lng,
		&category, &visibility, &createdBy, &createdAt, &attending, &maybe, &declined) {

		dto := &api.EventDTO{
			Id:          id,
			Title:       title,
			Description: description,
			Date:        date,
			Time:        clock,
			Location:    location,
			Category:    api.Category(category),
			Visibility:  api.Visibility(visibility),
			CreatedBy:   createdBy,
			CreatedAt:   createdAt,
			Rsvps: api.RsvpsDTO{
				Attending: sortedCopy(attending),
				Maybe:     sortedCopy(maybe),
				Declined:  sortedCopy(declined),
			},
		}

		if hasCoords {
			dto.Coordinates = &api.CoordinatesDTO{Lat: lat, Lng: lng}
		}

		events = append(events, dto)
	}

	if err := iter.Close(); err != nil {
		return nil, convErr(err)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Id < events[j].Id
	})

	return events, nil
}

func buildUpdate(eventID string, fields map[string]interface{}) (string, []interface{}, error) {

	if eventID == "" || len(fields) == 0 {
		return "", nil, ErrIllegalArguments
	}

	// Validate values against the DTO field types first
	applied := &api.EventDTO{}
	if err := applied.ApplyFields(fields); err != nil {
		return "", nil, err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var assignments []string
	var values []interface{}

	for _, name := range names {
		switch name {
		case api.FieldTitle:
			assignments = append(assignments, "title = ?")
			values = append(values, applied.Title)
		case api.FieldDescription:
			assignments = append(assignments, "description = ?")
			values = append(values, applied.Description)
		case api.FieldDate:
			assignments = append(assignments, "event_date = ?")
			values = append(values, applied.Date)
		case api.FieldTime:
			assignments = append(assignments, "event_time = ?")
			values = append(values, applied.Time)
		case api.FieldLocation:
			assignments = append(assignments, "location = ?")
			values = append(values, applied.Location)
		case api.FieldCoordinates:
			lat, lng, has := coordinatesToRow(applied.Coordinates)
			assignments = append(assignments, "has_coordinates = ?", "latitude = ?", "longitude = ?")
			values = append(values, has, lat, lng)
		case api.FieldCategory:
			assignments = append(assignments, "category = ?")
			values = append(values, string(applied.Category))
		case api.FieldVisibility:
			assignments = append(assignments, "visibility = ?")
			values = append(values, string(applied.Visibility))
		case api.FieldRsvps:
			assignments = append(assignments, "rsvp_attending = ?", "rsvp_maybe = ?", "rsvp_declined = ?")
			values = append(values, applied.Rsvps.Attending, applied.Rsvps.Maybe, applied.Rsvps.Declined)
		}
	}

	stmt := fmt.Sprintf("UPDATE event SET %v WHERE event_id = ? IF EXISTS", strings.Join(assignments, ", "))
	values = append(values, eventID)

	return stmt, values, nil
}

func buildSetRsvp(eventID string, userID string, status api.RsvpStatus) (string, []interface{}, error) {

	if eventID == "" || userID == "" {
		return "", nil, ErrIllegalArguments
	}

	if !status.IsValid() {
		return "", nil, api.ErrInvalidRsvpStatus
	}

	var assignments []string
	var values []interface{}

	for _, s := range api.RsvpStatuses {
		col := rsvpColumns[s]
		op := "-"
		if s == status {
			op = "+"
		}
		assignments = append(assignments, fmt.Sprintf("%v = %v %v ?", col, col, op))
		values = append(values, []string{userID})
	}

	stmt := fmt.Sprintf("UPDATE event SET %v WHERE event_id = ? IF EXISTS", strings.Join(assignments, ", "))
	values = append(values, eventID)

	return stmt, values, nil
}

func coordinatesToRow(c *api.CoordinatesDTO) (lat float64, lng float64, has bool) {
	if c == nil {
		return 0, 0, false
	}
	return c.Lat, c.Lng, true
}

func sortedCopy(values []string) []string {
	result := append([]string{}, values...)
	sort.Strings(result)
	return result
}
