package model

import (
	"errors"
)

var (
	ErrNotAuthenticated   = errors.New("no user is signed in")
	ErrForbidden          = errors.New("only the creator can modify this event")
	ErrEventNotWritable   = errors.New("event isn't writable")
	ErrInvalidTitle       = errors.New("invalid title")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidTime        = errors.New("invalid time")
	ErrInvalidLocation    = errors.New("invalid location")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidVisibility  = errors.New("invalid visibility")
	ErrInvalidStrategy    = errors.New("unknown rsvp strategy")
)
