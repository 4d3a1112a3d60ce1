package model

import (
	"sort"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
)

type RsvpCounts struct {
	Attending int
	Maybe     int
	Declined  int
}

func (c RsvpCounts) Total() int {
	return c.Attending + c.Maybe + c.Declined
}

// RsvpState holds the RSVP buckets of one event keyed by user, so a user can
// only ever be in one bucket. Values are immutable; With and Without return
// modified copies.
type RsvpState struct {
	members map[string]api.RsvpStatus
}

func newRsvpState() *RsvpState {
	return &RsvpState{members: make(map[string]api.RsvpStatus)}
}

// newRsvpStateFromDTO reads the three buckets in display order. A user listed
// in more than one bucket keeps the first one.
func newRsvpStateFromDTO(dto *api.RsvpsDTO) *RsvpState {

	state := newRsvpState()

	for _, status := range api.RsvpStatuses {
		for _, userID := range dto.Bucket(status) {
			if previous, exists := state.members[userID]; exists {
				if previous != status {
					logger.LogWf("RsvpState: user %v found in %v and %v, keeping %v",
						userID, previous, status, previous)
				}
				continue
			}
			state.members[userID] = status
		}
	}

	return state
}

func (s *RsvpState) StatusOf(userID string) (api.RsvpStatus, bool) {
	status, ok := s.members[userID]
	return status, ok
}

func (s *RsvpState) Has(userID string, status api.RsvpStatus) bool {
	current, ok := s.members[userID]
	return ok && current == status
}

// With returns a copy where userID belongs to status only.
func (s *RsvpState) With(userID string, status api.RsvpStatus) *RsvpState {
	copy := s.clone()
	copy.members[userID] = status
	return copy
}

// Without returns a copy where userID belongs to no bucket.
func (s *RsvpState) Without(userID string) *RsvpState {
	copy := s.clone()
	delete(copy.members, userID)
	return copy
}

// Members returns the users of a bucket sorted by id.
func (s *RsvpState) Members(status api.RsvpStatus) []string {
	users := make([]string, 0)
	for userID, current := range s.members {
		if current == status {
			users = append(users, userID)
		}
	}
	sort.Strings(users)
	return users
}

func (s *RsvpState) Counts() RsvpCounts {
	var counts RsvpCounts
	for _, status := range s.members {
		switch status {
		case api.RsvpStatus_ATTENDING:
			counts.Attending++
		case api.RsvpStatus_MAYBE:
			counts.Maybe++
		case api.RsvpStatus_DECLINED:
			counts.Declined++
		}
	}
	return counts
}

func (s *RsvpState) Len() int {
	return len(s.members)
}

func (s *RsvpState) AsDTO() api.RsvpsDTO {
	return api.RsvpsDTO{
		Attending: s.Members(api.RsvpStatus_ATTENDING),
		Maybe:     s.Members(api.RsvpStatus_MAYBE),
		Declined:  s.Members(api.RsvpStatus_DECLINED),
	}
}

func (s *RsvpState) clone() *RsvpState {
	copy := &RsvpState{members: make(map[string]api.RsvpStatus, len(s.members)+1)}
	for k, v := range s.members {
		copy.members[k] = v
	}
	return copy
}
