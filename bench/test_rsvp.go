package main

import (
	"context"
	"fmt"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/utils"
)

// setupRsvpEvent creates the event every worker answers to
func setupRsvpEvent(b *backend) error {

	when := time.Now().Add(30 * 24 * time.Hour)

	eventID, err := b.dao.Insert(context.Background(), &api.EventDTO{
		Title:       "Bench RSVP event",
		Description: "Everybody answers at once",
		Date:        when.Format(api.DateLayout),
		Time:        when.Format(api.TimeLayout),
		Location:    "Bench room",
		Category:    api.Category_OTHER,
		Visibility:  api.Visibility_PUBLIC,
		CreatedBy:   "bench",
		CreatedAt:   utils.TimeToMillis(time.Now()),
	})
	if err != nil {
		return err
	}

	b.eventID = eventID

	return nil
}

// Test write workload where each sample is a new user attending the shared
// event through the worker's mutator
func testRsvp(w *worker, testNumber int) (time.Duration, error) {

	w.session.Login(w.id2user(testNumber))

	startTime := time.Now()

	err := w.model.Rsvps.SetRsvp(context.Background(), w.backend.eventID, api.RsvpStatus_ATTENDING)
	if err != nil {
		logger.LogEf("TestRsvp %v Error: %v", testNumber, err)
		return 0, err
	}

	return time.Since(startTime), nil
}

func checkLostUpdates(b *backend, stats executionStats) error {

	stored, err := storedAttendees(b)
	if err != nil {
		return err
	}

	fmt.Printf("Attending: %v | writes: %v | lost updates: %v\n", stored, stats.numSamples, stats.numSamples-stored)

	return nil
}

func storedAttendees(b *backend) (int, error) {
	event, err := b.load(context.Background(), b.eventID)
	if err != nil {
		return 0, err
	}
	return len(event.Rsvps.Attending), nil
}
