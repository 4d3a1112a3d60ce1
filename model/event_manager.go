package model

import (
	"context"
	"sort"
	"strings"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/imkira/go-observer"
)

// EventManager publishes, edits and removes events on behalf of the signed in
// user. Like the RSVP mutator it never touches the store: results arrive with
// the next snapshot.
type EventManager struct {
	store       *EventStore
	dao         api.EventDAO
	auth        api.Authenticator
	clock       utils.Clock
	eventSignal observer.Property
}

func NewEventManager(store *EventStore, dao api.EventDAO, auth api.Authenticator, clock utils.Clock) *EventManager {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &EventManager{
		store:       store,
		dao:         dao,
		auth:        auth,
		clock:       clock,
		eventSignal: observer.NewProperty(nil),
	}
}

// Observe returns a stream of *Signal for created, changed and deleted events.
func (m *EventManager) Observe() observer.Stream {
	return m.eventSignal.Observe()
}

// CreateEvent stores a new event authored by the current user and returns its
// id. Without a signed in user nothing is written and the id is empty.
func (m *EventManager) CreateEvent(ctx context.Context, draft *EventDraft) (string, error) {

	userID, ok := m.auth.CurrentUserID()
	if !ok || userID == "" {
		logger.LogD("EventManager: create ignored, no user signed in")
		return "", nil
	}

	if draft == nil {
		return "", api.ErrInvalidArg
	}

	if err := validateDraft(draft); err != nil {
		return "", err
	}

	visibility := draft.Visibility
	if visibility == "" {
		visibility = api.Visibility_PUBLIC
	}

	dto := &api.EventDTO{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Date:        draft.Date,
		Time:        normalizeTime(draft.Time),
		Location:    strings.TrimSpace(draft.Location),
		Category:    api.NormalizeCategory(draft.Category),
		Visibility:  visibility,
		CreatedBy:   userID,
		CreatedAt:   utils.GetCurrentTimeMillis(m.clock),
		Rsvps:       newRsvpState().AsDTO(),
	}

	if draft.Coordinates != nil {
		c := *draft.Coordinates
		dto.Coordinates = &c
	}

	eventID, err := m.dao.Insert(ctx, dto)
	if err != nil {
		logger.LogEf("EventManager: create event failed: %v", err)
		return "", err
	}

	logger.LogIf("EventManager: event %v created by %v", eventID, userID)

	m.eventSignal.Update(&Signal{
		Type: SignalNewEvent,
		Data: map[string]interface{}{
			"EventID":   eventID,
			"CreatedBy": userID,
		},
	})

	return eventID, nil
}

func (m *EventManager) UpdateEvent(ctx context.Context, eventID string, update *EventUpdate) error {

	if _, err := m.authorize(eventID); err != nil {
		return err
	}

	if update == nil {
		return api.ErrInvalidArg
	}

	fields, err := fieldsOf(update)
	if err != nil {
		return err
	}

	if len(fields) == 0 {
		return nil
	}

	if err := m.dao.Update(ctx, eventID, fields); err != nil {
		logger.LogEf("EventManager: update of %v failed: %v", eventID, err)
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	m.eventSignal.Update(&Signal{
		Type: SignalEventInfoChanged,
		Data: map[string]interface{}{
			"EventID": eventID,
			"Fields":  names,
		},
	})

	return nil
}

func (m *EventManager) DeleteEvent(ctx context.Context, eventID string) error {

	userID, err := m.authorize(eventID)
	if err != nil {
		return err
	}

	if err := m.dao.Delete(ctx, eventID); err != nil {
		logger.LogEf("EventManager: delete of %v failed: %v", eventID, err)
		return err
	}

	logger.LogIf("EventManager: event %v deleted by %v", eventID, userID)

	m.eventSignal.Update(&Signal{
		Type: SignalEventDeleted,
		Data: map[string]interface{}{
			"EventID": eventID,
		},
	})

	return nil
}

// authorize checks that the current user created eventID.
func (m *EventManager) authorize(eventID string) (string, error) {

	userID, ok := m.auth.CurrentUserID()
	if !ok || userID == "" {
		return "", ErrNotAuthenticated
	}

	event, found := m.store.FindByID(eventID)
	if !found {
		return "", api.ErrNotFound
	}

	if !event.IsCreator(userID) {
		return "", ErrForbidden
	}

	return userID, nil
}
