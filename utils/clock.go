package utils

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mutex sync.RWMutex
	now   time.Time
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() time.Time {
	defer c.mutex.RUnlock()
	c.mutex.RLock()
	return c.now
}

func (c *ManualClock) Set(now time.Time) {
	defer c.mutex.Unlock()
	c.mutex.Lock()
	c.now = now
}

func (c *ManualClock) Advance(d time.Duration) time.Time {
	defer c.mutex.Unlock()
	c.mutex.Lock()
	c.now = c.now.Add(d)
	return c.now
}
