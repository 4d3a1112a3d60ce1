package main

import (
	"context"
	"fmt"
	"time"

	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/model"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/imkira/go-observer"
)

// Model observer constants
const (
	WindowTemporalSize = 20 * time.Second
)

// ModelObserver collects the signals of the model and logs one line per event
// and kind of change every window.
type ModelObserver struct {
	model        *model.AyiModel
	signalsQueue *utils.Queue[*model.Signal]
	storeStream  observer.Stream
	rsvpStream   observer.Stream
	eventStream  observer.Stream
}

func newModelObserver(m *model.AyiModel) *ModelObserver {
	return &ModelObserver{
		model:        m,
		signalsQueue: utils.NewQueue[*model.Signal](),
		storeStream:  m.Events.Observe(),
		rsvpStream:   m.Rsvps.Observe(),
		eventStream:  m.Manager.Observe(),
	}
}

func (m *ModelObserver) run(ctx context.Context) {

	ticker := time.NewTicker(WindowTemporalSize)
	defer ticker.Stop()

	for ctx.Err() == nil {
		m.receiveSignals(ctx, ticker.C)
	}

	m.processDelayedChanges()
}

func (m *ModelObserver) receiveSignals(ctx context.Context, tickC <-chan time.Time) {

	defer func() {
		if r := recover(); r != nil {
			logger.LogEf("ModelObserver receiveSignals err: %v", r)
		}
	}()

	for {
		select {
		case <-m.storeStream.Changes():
			m.storeStream.Next()
			m.processSignal(m.storeStream.Value().(*model.Signal))

		case <-m.rsvpStream.Changes():
			m.rsvpStream.Next()
			m.processSignal(m.rsvpStream.Value().(*model.Signal))

		case <-m.eventStream.Changes():
			m.eventStream.Next()
			m.processSignal(m.eventStream.Value().(*model.Signal))

		case <-tickC:
			m.processDelayedChanges()

		case <-ctx.Done():
			return
		}
	}
}

func (m *ModelObserver) processSignal(signal *model.Signal) {
	switch signal.Type {

	case model.SignalSnapshot, model.SignalFeedClosed:
		// Only the latest state of the feed matters
		m.signalsQueue.AddWithKey("feed", signal)

	case model.SignalRsvpChanged:
		collapseKey := fmt.Sprintf("rsvp#%v#%v", signal.Data["EventID"], signal.Data["UserID"])
		m.signalsQueue.AddWithKey(collapseKey, signal)

	case model.SignalEventInfoChanged:
		collapseKey := fmt.Sprintf("event-change#%v", signal.Data["EventID"])
		m.signalsQueue.AddWithKey(collapseKey, signal)

	case model.SignalEventDeleted:
		// A deleted event makes its pending changes irrelevant
		eventID := signal.Data["EventID"]
		m.signalsQueue.RemoveKey(fmt.Sprintf("event-change#%v", eventID))
		m.signalsQueue.AddWithKey(fmt.Sprintf("event#%v", eventID), signal)

	default:
		m.signalsQueue.AddWithKey(fmt.Sprintf("event#%v", signal.Data["EventID"]), signal)
	}
}

// processDelayedChanges logs and returns the signals collected since the last
// call.
func (m *ModelObserver) processDelayedChanges() []*model.Signal {

	processed := make([]*model.Signal, 0, m.signalsQueue.Len())
	signal, ok := m.signalsQueue.Remove()

	for ok {

		switch signal.Type {
		case model.SignalSnapshot:
			logger.LogIf("ModelObserver: feed at seq %v, %v events", signal.Data["Seq"], signal.Data["Count"])
		case model.SignalFeedClosed:
			logger.LogI("ModelObserver: feed closed")
		case model.SignalRsvpChanged:
			logger.LogIf("ModelObserver: %v is %v for event %v", signal.Data["UserID"], signal.Data["Status"], signal.Data["EventID"])
		default:
			logger.LogIf("ModelObserver: %v %v", signal.Type, signal.Data["EventID"])
		}

		processed = append(processed, signal)
		signal, ok = m.signalsQueue.Remove()
	}

	return processed
}
