package cqldao

import (
	"errors"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/gocql/gocql"
)

var (
	ErrNoSession        = errors.New("no session to Cassandra available")
	ErrIllegalArguments = errors.New("illegal arguments")
)

func convErr(err error) error {
	switch err {
	case gocql.ErrNotFound:
		return api.ErrNotFound
	}
	return err
}
