package main

import (
	"context"
	"fmt"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/model"
)

// Test write workload to create an event
func testCreateEvent(w *worker, testNumber int) (time.Duration, error) {

	when := time.Now().Add(7 * 24 * time.Hour)

	draft := &model.EventDraft{
		Title:       fmt.Sprintf("Bench event %v-%v", w.id, testNumber),
		Description: "This is a test event with a few words only",
		Date:        when.Format(api.DateLayout),
		Time:        when.Format(api.TimeLayout),
		Location:    "Bench room",
		Category:    api.Category_OTHER,
	}

	userID := w.id2user(testNumber)
	w.session.Login(userID)

	startTime := time.Now()

	eventID, err := w.model.Manager.CreateEvent(context.Background(), draft)
	if err != nil {
		logger.LogEf("TestCreateEvent %v Error: %v", testNumber, err)
		return 0, err
	}

	// The author attends its own event
	err = w.backend.dao.SetRsvp(context.Background(), eventID, userID, api.RsvpStatus_ATTENDING)
	if err != nil {
		logger.LogEf("TestCreateEvent %v Error: %v", testNumber, err)
		return 0, err
	}

	return time.Since(startTime), nil
}

func (w *worker) id2user(testNumber int) string {
	return fmt.Sprintf("bench-%v-%v", w.id, testNumber)
}
