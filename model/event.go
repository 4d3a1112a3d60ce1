package model

import (
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/utils"
)

const (
	EVENT_TITLE_MAX_LENGTH       = 100
	EVENT_DESCRIPTION_MAX_LENGTH = 2000
	EVENT_LOCATION_MAX_LENGTH    = 200
)

type Coordinates struct {
	Lat float64
	Lng float64
}

// Event is an immutable view of one record of the feed. A new Event is built
// for every snapshot, so holders never observe a partial update.
type Event struct {
	id          string
	title       string
	description string
	date        string
	time        string
	location    string
	coordinates *Coordinates
	category    api.Category
	visibility  api.Visibility
	createdBy   string
	createdAt   time.Time
	rsvps       *RsvpState

	// Start instant in the store location. Zero when date or time are malformed.
	instant time.Time
}

func newEventFromDTO(dto *api.EventDTO, loc *time.Location) *Event {

	event := &Event{
		id:          dto.Id,
		title:       dto.Title,
		description: dto.Description,
		date:        dto.Date,
		time:        dto.Time,
		location:    dto.Location,
		category:    api.NormalizeCategory(dto.Category),
		visibility:  dto.Visibility,
		createdBy:   dto.CreatedBy,
		rsvps:       newRsvpStateFromDTO(&dto.Rsvps),
	}

	if dto.CreatedAt != 0 {
		event.createdAt = utils.MillisToTime(dto.CreatedAt)
	}

	if dto.Coordinates != nil {
		event.coordinates = &Coordinates{Lat: dto.Coordinates.Lat, Lng: dto.Coordinates.Lng}
	}

	if event.visibility == "" {
		event.visibility = api.Visibility_PUBLIC
	}

	if instant, err := utils.ParseLocalInstant(dto.Date, dto.Time, loc); err == nil {
		event.instant = instant
	}

	return event
}

func (e *Event) Id() string {
	return e.id
}

func (e *Event) Title() string {
	return e.title
}

func (e *Event) Description() string {
	return e.description
}

// Date is the calendar date as stored, YYYY-MM-DD.
func (e *Event) Date() string {
	return e.date
}

// Time is the wall clock time as stored, HH:MM.
func (e *Event) Time() string {
	return e.time
}

func (e *Event) Location() string {
	return e.location
}

func (e *Event) Coordinates() (Coordinates, bool) {
	if e.coordinates == nil {
		return Coordinates{}, false
	}
	return *e.coordinates, true
}

func (e *Event) Category() api.Category {
	return e.category
}

func (e *Event) Visibility() api.Visibility {
	return e.visibility
}

func (e *Event) IsPublic() bool {
	return e.visibility != api.Visibility_PRIVATE
}

func (e *Event) CreatedBy() string {
	return e.createdBy
}

func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Event) IsCreator(userID string) bool {
	return userID != "" && e.createdBy == userID
}

// Instant returns the start of the event. ok is false when the stored date or
// time cannot be parsed.
func (e *Event) Instant() (instant time.Time, ok bool) {
	return e.instant, !e.instant.IsZero()
}

// IsPast reports whether the event started before now. Events without a valid
// start are considered past.
func (e *Event) IsPast(now time.Time) bool {
	instant, ok := e.Instant()
	if !ok {
		return true
	}
	return instant.Before(now)
}

func (e *Event) Rsvps() *RsvpState {
	return e.rsvps
}

// RsvpOf returns the bucket userID is in, if any.
func (e *Event) RsvpOf(userID string) (api.RsvpStatus, bool) {
	return e.rsvps.StatusOf(userID)
}

func (e *Event) RsvpCounts() RsvpCounts {
	return e.rsvps.Counts()
}

func (e *Event) AsDTO() *api.EventDTO {

	dto := &api.EventDTO{
		Id:          e.id,
		Title:       e.title,
		Description: e.description,
		Date:        e.date,
		Time:        e.time,
		Location:    e.location,
		Category:    e.category,
		Visibility:  e.visibility,
		CreatedBy:   e.createdBy,
		Rsvps:       e.rsvps.AsDTO(),
	}

	if !e.createdAt.IsZero() {
		dto.CreatedAt = utils.TimeToMillis(e.createdAt)
	}

	if e.coordinates != nil {
		dto.Coordinates = &api.CoordinatesDTO{Lat: e.coordinates.Lat, Lng: e.coordinates.Lng}
	}

	return dto
}
