package cqldao

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultLoadTimeout  = 5 * time.Second
)

type FeedOption func(*eventFeed)

func WithPollInterval(d time.Duration) FeedOption {
	return func(f *eventFeed) {
		if d > 0 {
			f.interval = d
		}
	}
}

func WithLoadTimeout(d time.Duration) FeedOption {
	return func(f *eventFeed) {
		if d > 0 {
			f.timeout = d
		}
	}
}

type loadFunc func(ctx context.Context) ([]*api.EventDTO, error)

type feedSubscriber struct {
	fn      api.SnapshotFunc
	initial bool // still waiting for its first snapshot
}

// eventFeed turns a table without change notifications into a live feed: it
// reloads the table periodically (or right after a local write) and publishes
// a snapshot whenever its content digest changes. A failing load publishes
// nothing, so subscribers see a stall.
type eventFeed struct {
	mutex       sync.Mutex
	load        loadFunc
	interval    time.Duration
	timeout     time.Duration
	subscribers map[int]*feedSubscriber
	nextID      int
	seq         uint64
	digest      [sha256.Size]byte
	last        []*api.EventDTO
	refreshCh   chan struct{}
	closeCh     chan struct{}
	started     bool
	closed      bool
}

func newEventFeed(load loadFunc, opts ...FeedOption) *eventFeed {
	f := &eventFeed{
		load:        load,
		interval:    DefaultPollInterval,
		timeout:     DefaultLoadTimeout,
		subscribers: make(map[int]*feedSubscriber),
		refreshCh:   make(chan struct{}, 1),
		closeCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *eventFeed) subscribe(fn api.SnapshotFunc) (dispose func()) {

	f.mutex.Lock()
	id := f.nextID
	f.nextID++
	f.subscribers[id] = &feedSubscriber{fn: fn, initial: true}
	if !f.started && !f.closed {
		f.started = true
		go f.run()
	}
	f.mutex.Unlock()

	f.refresh()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mutex.Lock()
			delete(f.subscribers, id)
			f.mutex.Unlock()
		})
	}
}

// refresh asks the poller for an immediate reload. Never blocks.
func (f *eventFeed) refresh() {
	select {
	case f.refreshCh <- struct{}{}:
	default:
	}
}

func (f *eventFeed) close() {
	defer f.mutex.Unlock()
	f.mutex.Lock()
	if !f.closed {
		f.closed = true
		close(f.closeCh)
	}
}

func (f *eventFeed) run() {

	logger.LogIf("EventFeed: Started (poll interval %v)", f.interval)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.closeCh:
			logger.LogI("EventFeed: Stopped")
			return
		case <-ticker.C:
			f.poll()
		case <-f.refreshCh:
			f.poll()
		}
	}
}

func (f *eventFeed) poll() {

	defer func() {
		if r := recover(); r != nil {
			logger.LogEf("EventFeed: Unexpected poll end %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	events, err := f.load(ctx)
	if err != nil {
		logger.LogWf("EventFeed: poll failed, snapshot skipped: %v", err)
		return
	}

	f.deliver(events)
}

// deliver is only called from the poller goroutine, which keeps seq ordered.
func (f *eventFeed) deliver(events []*api.EventDTO) {

	digest := digestOf(events)

	f.mutex.Lock()
	changed := f.seq == 0 || digest != f.digest
	if changed {
		f.seq++
		f.digest = digest
		f.last = events
	}
	seq := f.seq
	snapshot := f.last

	var targets []api.SnapshotFunc
	for _, sub := range f.subscribers {
		if changed || sub.initial {
			sub.initial = false
			targets = append(targets, sub.fn)
		}
	}
	f.mutex.Unlock()

	for _, fn := range targets {
		fn(seq, snapshot)
	}
}

func digestOf(events []*api.EventDTO) [sha256.Size]byte {
	h := sha256.New()
	for _, e := range events {
		fmt.Fprintf(h, "%v|%v|%v|%v|%v|%v|%v|%v|%v|%v|%v|%v|%v|%v\n", e.Id, e.Title, e.Description,
			e.Date, e.Time, e.Location, e.Coordinates != nil, coordsString(e.Coordinates), e.Category,
			e.Visibility, e.CreatedBy, e.CreatedAt, e.Rsvps.Attending, e.Rsvps.Maybe)
		fmt.Fprintf(h, "%v\n", e.Rsvps.Declined)
	}
	var digest [sha256.Size]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

func coordsString(c *api.CoordinatesDTO) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%v,%v", c.Lat, c.Lng)
}
