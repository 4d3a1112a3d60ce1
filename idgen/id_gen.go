package idgen

import (
	"strconv"
	"sync"
	"time"
)

const epoch int64 = 1446336000000 // Milliseconds since 1 Nov 2015 00:00

var defaultGenerator = New(1)

// NewID returns a fresh event identifier from the default generator.
func NewID() string {
	return defaultGenerator.NextString()
}

// New returns a generator for the given group. Generators running at the same
// time must use distinct groups.
func New(group uint16) *Generator {
	return &Generator{group: group % 4096, now: time.Now}
}

type Generator struct {
	mutex         sync.Mutex
	group         uint16 // 12 bits used (4096 different values)
	autoIncrement uint16 // 10 bits used (1024 different values)
	lastTime      time.Time
	now           func() time.Time
}

/*
  Next returns an ID of 64 bits where the first most significant 42 bits
  are the current time in millis since epoch (1 nov 2015 00:00:00), next
  12 bits are the group of this generator and the last 10 bits are an
  auto_increment number.

  A single generator can produce up to 1024 IDs per millisecond; after that
  it waits for the next millisecond.
*/
func (g *Generator) Next() uint64 {

	defer g.mutex.Unlock()
	g.mutex.Lock()

	currTime := g.now().UTC()

	if currTime.Sub(g.lastTime) < 1*time.Millisecond {

		g.autoIncrement = (g.autoIncrement + 1) % 1024

		if g.autoIncrement == 0 {
			currTime = g.waitTillNextMillisecond()
		}

	} else {
		g.autoIncrement = 0
	}

	currTimeMs := currTime.UnixNano()/int64(time.Millisecond) - epoch

	newID := uint64(currTimeMs) << (64 - 42) // 139 years of IDs
	newID |= uint64(g.group) << (64 - 42 - 12)
	newID |= uint64(g.autoIncrement)

	g.lastTime = currTime

	return newID
}

// NextString is Next encoded as the opaque string used for event ids.
func (g *Generator) NextString() string {
	return strconv.FormatUint(g.Next(), 36)
}

func (g *Generator) waitTillNextMillisecond() time.Time {
	currTime := g.now().UTC()
	for currTime.Sub(g.lastTime) < 1*time.Millisecond {
		time.Sleep(100 * time.Microsecond)
		currTime = g.now().UTC()
	}
	return currTime
}
