// Package reminder periodically scans the events the signed in user attends
// and hands due reminders to a dispatcher.
package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/model"
	"github.com/d3ce1t/areyouin-events/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

var (
	ErrAlreadyStarted = errors.New("scheduler already started")
	ErrInvalidLeads   = errors.New("hour lead must be positive and shorter than day lead")
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "idle"
}

type sentKey struct {
	userID  string
	eventID string
	kind    api.ReminderKind
}

type Option func(*Scheduler)

func WithClock(clock utils.Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

func WithPeriod(period time.Duration) Option {
	return func(s *Scheduler) {
		s.period = period
	}
}

func WithLeadTimes(dayLead time.Duration, hourLead time.Duration) Option {
	return func(s *Scheduler) {
		s.dayLead = dayLead
		s.hourLead = hourLead
	}
}

// WithRepeat makes every pass fire again for each reminder still in its
// window, leaving de-duplication to the platform tag.
func WithRepeat(repeat bool) Option {
	return func(s *Scheduler) {
		s.repeat = repeat
	}
}

type Scheduler struct {
	store      *model.EventStore
	auth       api.Authenticator
	dispatcher api.ReminderDispatcher
	clock      utils.Clock
	period     time.Duration
	dayLead    time.Duration
	hourLead   time.Duration
	repeat     bool

	// Serializes passes and guards sent
	passMutex sync.Mutex
	sent      map[sentKey]bool

	mutex  sync.Mutex
	state  State
	cron   *cron.Cron
	cancel context.CancelFunc
	passes int
}

func New(store *model.EventStore, auth api.Authenticator, dispatcher api.ReminderDispatcher,
	opts ...Option) (*Scheduler, error) {

	s := &Scheduler{
		store:      store,
		auth:       auth,
		dispatcher: dispatcher,
		clock:      utils.SystemClock{},
		period:     DefaultPeriod,
		dayLead:    DefaultDayBeforeLead,
		hourLead:   DefaultHourBeforeLead,
		sent:       make(map[sentKey]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.hourLead <= 0 || s.hourLead >= s.dayLead {
		return nil, ErrInvalidLeads
	}

	if s.period < time.Second {
		s.period = time.Second
	}

	return s, nil
}

func (s *Scheduler) State() State {
	defer s.mutex.Unlock()
	s.mutex.Lock()
	return s.state
}

// Passes returns how many evaluation passes have run.
func (s *Scheduler) Passes() int {
	defer s.mutex.Unlock()
	s.mutex.Lock()
	return s.passes
}

// Start asks for notification permission in the background, runs a pass
// right away and then one pass per period until Stop or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {

	s.mutex.Lock()
	if s.state != StateIdle {
		s.mutex.Unlock()
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.cron = cron.New(cron.WithChain(cron.Recover(cronLogger{})), cron.WithLogger(cronLogger{}))
	s.state = StateRunning
	s.mutex.Unlock()

	go func() {
		granted := s.dispatcher.EnsurePermission(ctx)
		logger.LogDf("Scheduler: notifications granted: %v", granted)
	}()

	s.RunPass(ctx)

	// Stop may have landed during the first pass
	s.mutex.Lock()
	if s.state != StateRunning {
		s.mutex.Unlock()
		logger.LogI("Scheduler: stopped before the timer was armed")
		return nil
	}
	s.cron.Schedule(cron.Every(s.period), cron.FuncJob(func() {
		s.RunPass(ctx)
	}))
	s.cron.Start()
	s.mutex.Unlock()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	logger.LogIf("Scheduler: started, period %v", s.period)

	return nil
}

// Stop cancels the timer. A pass in progress completes. Calling Stop more
// than once, or before Start, is harmless.
func (s *Scheduler) Stop() {

	s.mutex.Lock()
	if s.state != StateRunning {
		s.state = StateStopped
		s.mutex.Unlock()
		return
	}
	s.state = StateStopped
	// Under the mutex so it cannot interleave with Start arming the timer
	s.cron.Stop()
	cancel := s.cancel
	s.mutex.Unlock()

	cancel()

	logger.LogI("Scheduler: stopped")
}

// RunPass evaluates reminders at the current time and dispatches them.
func (s *Scheduler) RunPass(ctx context.Context) []*api.ReminderDTO {

	reminders := s.Evaluate(s.clock.Now())

	s.mutex.Lock()
	s.passes++
	s.mutex.Unlock()

	for _, r := range reminders {
		if err := s.dispatcher.Dispatch(ctx, r); err != nil {
			logger.LogEf("Scheduler: dispatch %v for %v failed: %v", r.Kind, r.EventId, err)
			s.forget(r)
		}
	}

	return reminders
}

// Evaluate returns the reminders to fire at now and records them as sent.
func (s *Scheduler) Evaluate(now time.Time) []*api.ReminderDTO {

	defer s.passMutex.Unlock()
	s.passMutex.Lock()

	reminders := make([]*api.ReminderDTO, 0)

	userID, ok := s.auth.CurrentUserID()
	if !ok {
		s.sent = make(map[sentKey]bool)
		return reminders
	}

	events := s.store.AttendingEvents(userID)
	if len(events) == 0 {
		s.sent = make(map[sentKey]bool)
		return reminders
	}

	applicable := make(map[sentKey]bool)

	for _, event := range events {

		instant, ok := event.Instant()
		if !ok {
			logger.LogDf("Scheduler: event %v skipped, bad date %q time %q", event.Id(), event.Date(), event.Time())
			continue
		}

		kind, due := classify(instant.Sub(now), s.dayLead, s.hourLead)
		if !due {
			continue
		}

		key := sentKey{userID: userID, eventID: event.Id(), kind: kind}
		applicable[key] = true

		if !s.repeat && s.sent[key] {
			continue
		}

		s.sent[key] = true

		reminders = append(reminders, &api.ReminderDTO{
			UserId:        userID,
			EventId:       event.Id(),
			EventTitle:    event.Title(),
			EventTime:     event.Time(),
			EventLocation: event.Location(),
			StartsAt:      instant,
			Kind:          kind,
		})
	}

	// Forget reminders whose window no longer applies
	for key := range s.sent {
		if !applicable[key] {
			delete(s.sent, key)
		}
	}

	return reminders
}

// forget drops the sent mark of r so the next pass retries it. Keyed by the
// user r was evaluated for.
func (s *Scheduler) forget(r *api.ReminderDTO) {
	s.passMutex.Lock()
	delete(s.sent, sentKey{userID: r.UserId, eventID: r.EventId, kind: r.Kind})
	s.passMutex.Unlock()
}

// cronLogger routes cron messages to the zap logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.LogWithFields(zapcore.DebugLevel, "Scheduler cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.LogWithFields(zapcore.ErrorLevel, "Scheduler cron: "+msg, append(keysAndValues, "error", err)...)
}
