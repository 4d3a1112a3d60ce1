package model

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/d3ce1t/areyouin-events/api"
)

// EventDraft holds the fields a user fills in to publish an event.
type EventDraft struct {
	Title       string
	Description string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Location    string
	Coordinates *api.CoordinatesDTO
	Category    api.Category
	Visibility  api.Visibility
}

// EventUpdate carries the fields to change. Nil fields are left untouched.
type EventUpdate struct {
	Title            *string
	Description      *string
	Date             *string
	Time             *string
	Location         *string
	Coordinates      *api.CoordinatesDTO
	ClearCoordinates bool
	Category         *api.Category
	Visibility       *api.Visibility
}

func (u *EventUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Date == nil && u.Time == nil &&
		u.Location == nil && u.Coordinates == nil && !u.ClearCoordinates &&
		u.Category == nil && u.Visibility == nil
}

func IsValidTitle(title string) bool {
	title = strings.TrimSpace(title)
	return title != "" && utf8.RuneCountInString(title) <= EVENT_TITLE_MAX_LENGTH
}

func IsValidDescription(description string) bool {
	description = strings.TrimSpace(description)
	return description != "" && utf8.RuneCountInString(description) <= EVENT_DESCRIPTION_MAX_LENGTH
}

func IsValidLocation(location string) bool {
	location = strings.TrimSpace(location)
	return location != "" && utf8.RuneCountInString(location) <= EVENT_LOCATION_MAX_LENGTH
}

func IsValidDate(date string) bool {
	_, err := time.Parse(api.DateLayout, date)
	return err == nil
}

func IsValidTime(clock string) bool {
	_, err := time.Parse(api.TimeLayout, clock)
	return err == nil
}

// normalizeTime pads a valid clock to HH:MM, so "9:30" is stored as "09:30".
func normalizeTime(clock string) string {
	t, err := time.Parse(api.TimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format(api.TimeLayout)
}

func IsValidCoordinates(c *api.CoordinatesDTO) bool {
	if c == nil {
		return true
	}
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func IsValidVisibility(v api.Visibility) bool {
	return v == api.Visibility_PUBLIC || v == api.Visibility_PRIVATE
}

func validateDraft(d *EventDraft) error {

	if !IsValidTitle(d.Title) {
		return ErrInvalidTitle
	}

	if !IsValidDescription(d.Description) {
		return ErrInvalidDescription
	}

	if !IsValidDate(d.Date) {
		return ErrInvalidDate
	}

	if !IsValidTime(d.Time) {
		return ErrInvalidTime
	}

	if !IsValidLocation(d.Location) {
		return ErrInvalidLocation
	}

	if !IsValidCoordinates(d.Coordinates) {
		return ErrInvalidCoordinates
	}

	if d.Visibility != "" && !IsValidVisibility(d.Visibility) {
		return ErrInvalidVisibility
	}

	return nil
}

// fieldsOf validates u and turns it into the field map accepted by
// api.EventDAO.Update.
func fieldsOf(u *EventUpdate) (map[string]interface{}, error) {

	fields := make(map[string]interface{})

	if u.Title != nil {
		if !IsValidTitle(*u.Title) {
			return nil, ErrInvalidTitle
		}
		fields[api.FieldTitle] = strings.TrimSpace(*u.Title)
	}

	if u.Description != nil {
		if !IsValidDescription(*u.Description) {
			return nil, ErrInvalidDescription
		}
		fields[api.FieldDescription] = strings.TrimSpace(*u.Description)
	}

	if u.Date != nil {
		if !IsValidDate(*u.Date) {
			return nil, ErrInvalidDate
		}
		fields[api.FieldDate] = *u.Date
	}

	if u.Time != nil {
		if !IsValidTime(*u.Time) {
			return nil, ErrInvalidTime
		}
		fields[api.FieldTime] = normalizeTime(*u.Time)
	}

	if u.Location != nil {
		if !IsValidLocation(*u.Location) {
			return nil, ErrInvalidLocation
		}
		fields[api.FieldLocation] = strings.TrimSpace(*u.Location)
	}

	if u.ClearCoordinates {
		fields[api.FieldCoordinates] = (*api.CoordinatesDTO)(nil)
	} else if u.Coordinates != nil {
		if !IsValidCoordinates(u.Coordinates) {
			return nil, ErrInvalidCoordinates
		}
		c := *u.Coordinates
		fields[api.FieldCoordinates] = &c
	}

	if u.Category != nil {
		fields[api.FieldCategory] = api.NormalizeCategory(*u.Category)
	}

	if u.Visibility != nil {
		if !IsValidVisibility(*u.Visibility) {
			return nil, ErrInvalidVisibility
		}
		fields[api.FieldVisibility] = *u.Visibility
	}

	return fields, nil
}
