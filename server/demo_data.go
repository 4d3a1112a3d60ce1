package main

import (
	"context"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/utils"
)

// initDemoEvents fills an empty feed with a few events around now so that
// reminders fire soon after start. userID attends the upcoming ones.
func initDemoEvents(ctx context.Context, dao api.EventDAO, clock utils.Clock, userID string) ([]string, error) {

	now := clock.Now()
	at := func(d time.Duration) (string, string) {
		t := now.Add(d).Truncate(time.Minute)
		return t.Format(api.DateLayout), t.Format(api.TimeLayout)
	}

	tomorrowDate, tomorrowTime := at(23 * time.Hour)
	soonDate, soonTime := at(45 * time.Minute)
	laterDate, laterTime := at(72 * time.Hour)
	pastDate, pastTime := at(-48 * time.Hour)

	events := []*api.EventDTO{
		{
			Title: "Team lunch", Description: "Monthly lunch with the team",
			Date: tomorrowDate, Time: tomorrowTime, Location: "La Tasca",
			Category: api.Category_SOCIAL, CreatedBy: "user2",
			Rsvps: api.RsvpsDTO{Attending: []string{userID, "user2"}, Maybe: []string{"user3"}},
		},
		{
			Title: "Go meetup", Description: "Talks about concurrency",
			Date: soonDate, Time: soonTime, Location: "Campus Madrid",
			Coordinates: &api.CoordinatesDTO{Lat: 40.4125, Lng: -3.7016},
			Category:    api.Category_TECHNOLOGY, CreatedBy: userID,
			Rsvps: api.RsvpsDTO{Attending: []string{userID}, Declined: []string{"user4"}},
		},
		{
			Title: "Five a side", Description: "Bring your boots",
			Date: laterDate, Time: laterTime, Location: "Polideportivo",
			Category: api.Category_SPORTS, CreatedBy: "user3",
			Rsvps: api.RsvpsDTO{Maybe: []string{userID}},
		},
		{
			Title: "Museum visit", Description: "Prado, free entrance",
			Date: pastDate, Time: pastTime, Location: "Museo del Prado",
			Category: api.Category_ARTS, CreatedBy: userID,
			Rsvps: api.RsvpsDTO{Attending: []string{userID, "user2", "user3"}},
		},
	}

	ids := make([]string, 0, len(events))

	for _, event := range events {
		event.Visibility = api.Visibility_PUBLIC
		event.CreatedAt = utils.GetCurrentTimeMillis(clock)
		id, err := dao.Insert(ctx, event)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
