// Package memdao keeps events in process memory and pushes a full snapshot to
// every subscriber after each write. It backs tests and the server memory mode.
package memdao

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/idgen"
)

type subscriber struct {
	fn     api.SnapshotFunc
	closed atomic.Bool
}

type EventDAO struct {
	mutex       sync.Mutex
	publishLock sync.Mutex
	events      map[string]*api.EventDTO
	subscribers map[int]*subscriber
	nextSubID   int
	seq         uint64
	paused      bool
	ids         *idgen.Generator
}

func NewEventDAO() *EventDAO {
	return &EventDAO{
		events:      make(map[string]*api.EventDTO),
		subscribers: make(map[int]*subscriber),
		ids:         idgen.New(2),
	}
}

// Subscribe delivers the current snapshot right away and then one snapshot per
// write until dispose is called.
func (d *EventDAO) Subscribe(fn api.SnapshotFunc) (dispose func()) {

	d.mutex.Lock()
	id := d.nextSubID
	d.nextSubID++
	sub := &subscriber{fn: fn}
	d.subscribers[id] = sub
	d.mutex.Unlock()

	d.publish()

	var once sync.Once

	return func() {
		once.Do(func() {
			sub.closed.Store(true)
			d.mutex.Lock()
			delete(d.subscribers, id)
			d.mutex.Unlock()
		})
	}
}

func (d *EventDAO) Insert(ctx context.Context, event *api.EventDTO) (string, error) {

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if event == nil {
		return "", api.ErrInvalidArg
	}

	dto := event.Clone()
	if dto.Id == "" {
		dto.Id = d.ids.NextString()
	}

	d.mutex.Lock()
	d.events[dto.Id] = dto
	d.mutex.Unlock()

	d.publish()

	return dto.Id, nil
}

func (d *EventDAO) Update(ctx context.Context, eventID string, fields map[string]interface{}) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	d.mutex.Lock()
	current, ok := d.events[eventID]
	if !ok {
		d.mutex.Unlock()
		return api.ErrNotFound
	}

	// Copy on write so snapshots already handed out never change
	modified := current.Clone()
	if err := modified.ApplyFields(fields); err != nil {
		d.mutex.Unlock()
		return err
	}
	d.events[eventID] = modified
	d.mutex.Unlock()

	d.publish()

	return nil
}

func (d *EventDAO) SetRsvp(ctx context.Context, eventID string, userID string, status api.RsvpStatus) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	if !status.IsValid() || userID == "" {
		return api.ErrInvalidArg
	}

	d.mutex.Lock()
	current, ok := d.events[eventID]
	if !ok {
		d.mutex.Unlock()
		return api.ErrNotFound
	}

	modified := current.Clone()
	modified.Rsvps = api.RsvpsDTO{
		Attending: setOp(modified.Rsvps.Attending, userID, status == api.RsvpStatus_ATTENDING),
		Maybe:     setOp(modified.Rsvps.Maybe, userID, status == api.RsvpStatus_MAYBE),
		Declined:  setOp(modified.Rsvps.Declined, userID, status == api.RsvpStatus_DECLINED),
	}
	d.events[eventID] = modified
	d.mutex.Unlock()

	d.publish()

	return nil
}

func (d *EventDAO) Delete(ctx context.Context, eventID string) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	d.mutex.Lock()
	if _, ok := d.events[eventID]; !ok {
		d.mutex.Unlock()
		return api.ErrNotFound
	}
	delete(d.events, eventID)
	d.mutex.Unlock()

	d.publish()

	return nil
}

// Load returns a copy of the stored record. Used by tests and tooling to look
// behind the feed.
func (d *EventDAO) Load(eventID string) (*api.EventDTO, error) {
	defer d.mutex.Unlock()
	d.mutex.Lock()
	if dto, ok := d.events[eventID]; ok {
		return dto.Clone(), nil
	}
	return nil, api.ErrNotFound
}

// SetPaused stops (true) or restarts (false) snapshot delivery, simulating a
// stalled connection. Resuming publishes the latest state once.
func (d *EventDAO) SetPaused(paused bool) {
	d.mutex.Lock()
	d.paused = paused
	d.mutex.Unlock()
	if !paused {
		d.publish()
	}
}

// publish hands the current state to every subscriber. publishLock keeps
// batches ordered by seq across concurrent writers.
func (d *EventDAO) publish() {

	defer d.publishLock.Unlock()
	d.publishLock.Lock()

	d.mutex.Lock()
	if d.paused {
		d.mutex.Unlock()
		return
	}

	d.seq++
	seq := d.seq
	snapshot := d.snapshot()

	subs := make([]*subscriber, 0, len(d.subscribers))
	for _, sub := range d.subscribers {
		subs = append(subs, sub)
	}
	d.mutex.Unlock()

	for _, sub := range subs {
		if !sub.closed.Load() {
			sub.fn(seq, snapshot)
		}
	}
}

func (d *EventDAO) snapshot() []*api.EventDTO {
	snapshot := make([]*api.EventDTO, 0, len(d.events))
	for _, dto := range d.events {
		snapshot = append(snapshot, dto)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Id < snapshot[j].Id
	})
	return snapshot
}

// setOp returns members with userID added (add == true) or removed.
func setOp(members []string, userID string, add bool) []string {
	result := make([]string, 0, len(members)+1)
	for _, m := range members {
		if m != userID {
			result = append(result, m)
		}
	}
	if add {
		result = append(result, userID)
	}
	return result
}
