package api

import (
	"errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArg          = errors.New("invalid arguments")
	ErrInvalidRsvpStatus   = errors.New("invalid rsvp status")
	ErrUnknownField        = errors.New("unknown event field")
	ErrPlatformUnavailable = errors.New("notification platform unavailable")
	ErrFeedClosed          = errors.New("feed closed")
	ErrUnexpected          = errors.New("unexpected error")
)
