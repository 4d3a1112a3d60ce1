package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/auth"
	"github.com/d3ce1t/areyouin-events/cqldao"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/memdao"
	"github.com/d3ce1t/areyouin-events/model"
	"github.com/d3ce1t/areyouin-events/utils"
)

type testHandler func(w *worker, testNumber int) (time.Duration, error)

type benchTest struct {
	strategy model.RsvpStrategy
	setup    func(b *backend) error
	run      testHandler
	check    func(b *backend, stats executionStats) error
}

var availableTests = map[string]*benchTest{
	"create_event": {
		strategy: model.RsvpStrategy_ATOMIC,
		run:      testCreateEvent,
	},
	"rsvp_overwrite": {
		strategy: model.RsvpStrategy_OVERWRITE,
		setup:    setupRsvpEvent,
		run:      testRsvp,
		check:    checkLostUpdates,
	},
	"rsvp_atomic": {
		strategy: model.RsvpStrategy_ATOMIC,
		setup:    setupRsvpEvent,
		run:      testRsvp,
		check:    checkLostUpdates,
	},
}

// backend is the feed every worker writes through
type backend struct {
	dao     api.EventDAO
	load    func(ctx context.Context, eventID string) (*api.EventDTO, error)
	close   func()
	eventID string // shared by rsvp tests
}

// worker owns a model with its own signed in user, like a client would
type worker struct {
	id      int
	backend *backend
	session *auth.Session
	model   *model.AyiModel
	sub     *model.Subscription
}

type executionStats struct {
	min        time.Duration
	max        time.Duration
	avg        time.Duration
	cdur       time.Duration
	ops        int
	numSamples int
	numErrors  int
	numTimes   int
}

func (s executionStats) String() string {
	return fmt.Sprintf("min: %13v | max: %13v | avg: %13v | avg.ops: %4v | samples: %5v | errors: %4v | total: %5v",
		s.min, s.max, s.avg, s.ops, s.numSamples, s.numErrors, s.numTimes)
}

// bench -h 127.0.0.1 -k areyouin -t rsvp_overwrite -n 200 -c 8
// bench -memory -t rsvp_atomic -n 200 -c 8

func showError(errStr string) {
	fmt.Printf("\n\tError: %v\n\n", errStr)
	fmt.Printf("\t%v --help for usage information\n\n", os.Args[0])
}

func main() {

	// Init flags

	var host string
	var keyspace string
	var cqlVersion int
	var memory bool
	var pollInterval time.Duration
	var test string
	var numTimes int
	var numThreads int

	flag.StringVar(&host, "h", "localhost", "IP address of Cassandra")
	flag.StringVar(&keyspace, "k", "", "Keyspace")
	flag.IntVar(&cqlVersion, "cql-version", 2, "CQL version")
	flag.BoolVar(&memory, "memory", false, "Use the in-memory feed instead of Cassandra")
	flag.DurationVar(&pollInterval, "poll", 200*time.Millisecond, "Cassandra feed poll interval")
	flag.StringVar(&test, "t", "", "Test name (create_event, rsvp_overwrite, rsvp_atomic)")
	flag.IntVar(&numTimes, "n", 1, "Times test will be executed")
	flag.IntVar(&numThreads, "c", 1, "Number of concurrent workers")

	flag.Parse()

	if keyspace == "" && !memory {
		showError("Keyspace name isn't set")
		return
	}

	if test == "" {
		showError("Test name isn't set")
		return
	}

	if cqlVersion < 2 || cqlVersion > 4 {
		showError("CQL version must be between 2 and 4")
		return
	}

	if numThreads < 1 || numTimes < 1 {
		showError("-n and -c must be positive")
		return
	}

	t, ok := availableTests[test]
	if !ok {
		showError("Selected test doesn't exist")
		return
	}

	// Connect to database

	var b *backend
	var err error

	if memory {
		b = newMemoryBackend()
	} else {
		b, err = newCassandraBackend(keyspace, cqlVersion, host, pollInterval)
		if err != nil {
			showError(err.Error())
			return
		}
	}

	defer b.close()

	// Execute test

	if err := executeTest(b, t, numTimes, numThreads); err != nil {
		showError(err.Error())
	}

	logger.Sync()
}

func newMemoryBackend() *backend {
	dao := memdao.NewEventDAO()
	return &backend{
		dao: dao,
		load: func(ctx context.Context, eventID string) (*api.EventDTO, error) {
			return dao.Load(eventID)
		},
		close: func() {},
	}
}

func newCassandraBackend(keyspace string, cqlVersion int, host string, poll time.Duration) (*backend, error) {

	session := cqldao.NewSession(keyspace, cqlVersion, host)
	if err := session.Connect(); err != nil {
		return nil, err
	}

	if err := cqldao.CreateSchema(session); err != nil {
		session.Close()
		return nil, err
	}

	dao := cqldao.NewEventDAO(session, cqldao.WithPollInterval(poll))

	return &backend{
		dao: dao,
		load: func(ctx context.Context, eventID string) (*api.EventDTO, error) {
			events, err := dao.LoadEvents(ctx, eventID)
			if err != nil {
				return nil, err
			}
			if len(events) == 0 {
				return nil, api.ErrNotFound
			}
			return events[0], nil
		},
		close: func() {
			dao.Close()
			session.Close()
		},
	}, nil
}

func newWorker(id int, b *backend, strategy model.RsvpStrategy) *worker {
	w := &worker{
		id:      id,
		backend: b,
		session: auth.NewSessionFor(fmt.Sprintf("bench-%v-0", id)),
	}
	w.model = model.New(b.dao, w.session, model.WithRsvpStrategy(strategy))
	w.sub = w.model.Events.Subscribe()
	return w
}

func (w *worker) close() {
	w.sub.Close()
}

// waitFor blocks until the worker's store has eventID cached.
func (w *worker) waitFor(eventID string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, ok := w.model.Events.FindByID(eventID); ok {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("worker %v: event %v not received", w.id, eventID)
}

func executeTest(b *backend, t *benchTest, numTimes int, numWorkers int) error {

	if t.setup != nil {
		if err := t.setup(b); err != nil {
			return err
		}
	}

	workers := make([]*worker, numWorkers)
	for i := range workers {
		workers[i] = newWorker(i, b, t.strategy)
		defer workers[i].close()
		if b.eventID != "" {
			if err := workers[i].waitFor(b.eventID, 10*time.Second); err != nil {
				return err
			}
		}
	}

	var wg sync.WaitGroup
	totalWork := numTimes

	statsSlice := make([]executionStats, numWorkers)

	// Distribute work between workers

	startTime := time.Now()

	for i := 0; i < numWorkers; i++ {

		wg.Add(1)

		availableThreads := numWorkers - i
		workSize := totalWork / availableThreads
		if totalWork%availableThreads > 0 {
			workSize++
		}

		// Do things
		go func(w *worker, workSize int) {
			defer wg.Done()
			stats := executeTestInWorker(w, t.run, workSize)
			statsSlice[w.id] = stats
			// Print individual stats
			fmt.Printf("Worker: %3v | %v\n", w.id, stats)
		}(workers[i], workSize)

		// Decrease remaining work
		totalWork -= workSize
	}

	wg.Wait()

	duration := time.Since(startTime)

	// Print global stats
	globalStats := computeGlobalStats(statsSlice, duration)
	fmt.Printf("Global: %v | %v\n", "---", globalStats)

	if t.check != nil {
		return t.check(b, globalStats)
	}

	return nil
}

func executeTestInWorker(w *worker, test testHandler, numTimes int) executionStats {

	var min int64 = math.MaxInt64
	var max int64
	var sumDur time.Duration

	numSamples := 0
	numErrors := 0

	for i := 0; i < numTimes; i++ {

		duration, err := test(w, i)

		if err == nil {
			sumDur += duration
			durInt64 := int64(duration)
			min = utils.MinInt64(min, durInt64)
			max = utils.MaxInt64(max, durInt64)
			numSamples++
		} else {
			numErrors++
		}
	}

	return newStats(min, max, sumDur, sumDur, numSamples, numErrors, numTimes)
}

func computeGlobalStats(statsSlice []executionStats, globalDuration time.Duration) executionStats {

	var min int64 = math.MaxInt64
	var max int64
	var cdur int64
	var numSamples int
	var numErrors int
	var numTimes int

	for _, stats := range statsSlice {
		if stats.numSamples > 0 {
			min = utils.MinInt64(min, int64(stats.min))
			max = utils.MaxInt64(max, int64(stats.max))
		}
		cdur += int64(stats.cdur)
		numSamples += stats.numSamples
		numErrors += stats.numErrors
		numTimes += stats.numTimes
	}

	return newStats(min, max, time.Duration(cdur), globalDuration, numSamples, numErrors, numTimes)
}

// newStats computes averages. elapsed is the wall time used for ops/s.
func newStats(min int64, max int64, cdur time.Duration, elapsed time.Duration,
	numSamples int, numErrors int, numTimes int) executionStats {

	stats := executionStats{
		cdur:       cdur,
		numSamples: numSamples,
		numErrors:  numErrors,
		numTimes:   numTimes,
	}

	if numSamples == 0 {
		return stats
	}

	stats.min = time.Duration(min)
	stats.max = time.Duration(max)
	stats.avg = time.Duration(int64(float64(cdur) / float64(numSamples)))
	if elapsed > 0 {
		stats.ops = int(float64(numSamples) / elapsed.Seconds())
	}

	return stats
}
