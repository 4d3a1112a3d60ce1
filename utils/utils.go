package utils

import (
	"time"
)

// Return time as millis
func TimeToMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func MillisToTime(millis int64) time.Time {
	seconds := millis / 1000
	rest := millis % 1000
	return time.Unix(seconds, rest*int64(time.Millisecond))
}

// Get current time in millis
func GetCurrentTimeMillis(clock Clock) int64 {
	return TimeToMillis(clock.Now())
}

// ParseLocalInstant combines a calendar date and a wall clock time into an
// instant in loc. An empty time means midnight.
func ParseLocalInstant(date string, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if clock == "" {
		return time.ParseInLocation("2006-01-02", date, loc)
	}
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
}

func GenParams(size int) string {

	if size == 0 {
		return ""
	}

	result := "?"
	for i := 1; i < size; i++ {
		result += ", ?"
	}
	return result
}

func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func MaxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// CreateDate builds a local time with minute precision. Handy in tests.
func CreateDate(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.Local)
}
