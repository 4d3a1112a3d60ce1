package api

import "time"

// Wire layout of the date and time fields of an event record.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type EventDTO struct {
	Id          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Coordinates *CoordinatesDTO `json:"coordinates,omitempty"`
	Category    Category        `json:"category"`
	Visibility  Visibility      `json:"visibility"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   int64           `json:"createdAt"` // millis
	Rsvps       RsvpsDTO        `json:"rsvps"`
}

type CoordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RsvpsDTO struct {
	Attending []string `json:"attending"`
	Maybe     []string `json:"maybe"`
	Declined  []string `json:"declined"`
}

// Bucket returns the slice held for status, or nil for an unknown status.
func (r *RsvpsDTO) Bucket(status RsvpStatus) []string {
	switch status {
	case RsvpStatus_ATTENDING:
		return r.Attending
	case RsvpStatus_MAYBE:
		return r.Maybe
	case RsvpStatus_DECLINED:
		return r.Declined
	}
	return nil
}

func (r *RsvpsDTO) Clone() RsvpsDTO {
	return RsvpsDTO{
		Attending: append([]string{}, r.Attending...),
		Maybe:     append([]string{}, r.Maybe...),
		Declined:  append([]string{}, r.Declined...),
	}
}

func (e *EventDTO) Clone() *EventDTO {
	copy := new(EventDTO)
	*copy = *e
	if e.Coordinates != nil {
		c := *e.Coordinates
		copy.Coordinates = &c
	}
	copy.Rsvps = e.Rsvps.Clone()
	return copy
}

// Field names accepted by EventDAO.Update
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldLocation    = "location"
	FieldCoordinates = "coordinates"
	FieldCategory    = "category"
	FieldVisibility  = "visibility"
	FieldRsvps       = "rsvps"
)

type NotificationDTO struct {
	Id         string
	Title      string
	Body       string
	Tag        string
	EventId    string
	Persistent bool
	ExpiresAt  time.Time // zero means no expiry
	OnClick    func()
}

// ApplyFields overwrites the named top level fields of e. Values must carry
// the Go type used by EventDTO for that field (plain strings are accepted for
// category and visibility).
func (e *EventDTO) ApplyFields(fields map[string]interface{}) error {

	for name, value := range fields {

		var ok bool

		switch name {
		case FieldTitle:
			e.Title, ok = value.(string)
		case FieldDescription:
			e.Description, ok = value.(string)
		case FieldDate:
			e.Date, ok = value.(string)
		case FieldTime:
			e.Time, ok = value.(string)
		case FieldLocation:
			e.Location, ok = value.(string)
		case FieldCoordinates:
			switch v := value.(type) {
			case nil:
				e.Coordinates, ok = nil, true
			case *CoordinatesDTO:
				e.Coordinates, ok = v, true
			}
		case FieldCategory:
			switch v := value.(type) {
			case Category:
				e.Category, ok = v, true
			case string:
				e.Category, ok = Category(v), true
			}
		case FieldVisibility:
			switch v := value.(type) {
			case Visibility:
				e.Visibility, ok = v, true
			case string:
				e.Visibility, ok = Visibility(v), true
			}
		case FieldRsvps:
			var rsvps RsvpsDTO
			rsvps, ok = value.(RsvpsDTO)
			if ok {
				e.Rsvps = rsvps.Clone()
			}
		default:
			return ErrUnknownField
		}

		if !ok {
			return ErrInvalidArg
		}
	}

	return nil
}
