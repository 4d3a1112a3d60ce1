package shell

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/model"
)

// list_events [all|mine|upcoming|past|attending]
func listEvents(shell *Shell, args []string) {

	m := shell.server.Model()
	filter := "all"
	if len(args) > 1 {
		filter = args[1]
	}

	userID, _ := shell.server.Session().CurrentUserID()
	now := m.Clock.Now()

	var events []*model.Event

	switch filter {
	case "all":
		events = m.Events.CurrentEvents()
	case "mine":
		events = m.Events.UserEvents(userID)
	case "upcoming":
		events = m.Events.UpcomingEvents(now)
	case "past":
		events = m.Events.PastEvents(now)
	case "attending":
		events = m.Events.AttendingEvents(userID)
	default:
		fmt.Fprintln(shell, "Usage: list_events [all|mine|upcoming|past|attending]")
		return
	}

	fmt.Fprintln(shell, rp("-", 100))
	fmt.Fprintf(shell, "| %-20s | %-30s | %-16s | %-9s | %-9s |\n", "Id", "Title", "Starts", "Attending", "You")
	fmt.Fprintln(shell, rp("-", 100))

	for _, event := range events {
		you, ok := event.RsvpOf(userID)
		if !ok {
			you = "-"
		}
		fmt.Fprintf(shell, "| %-20v | %-30v | %-16v | %-9v | %-9v |\n",
			ff(event.Id(), 20), ff(event.Title(), 30), ff(event.Date()+" "+event.Time(), 16),
			event.RsvpCounts().Attending, you)
	}
	fmt.Fprintln(shell, rp("-", 100))

	fmt.Fprintln(shell, "Num. Events:", len(events))
}

// show_event <event_id>
func showEvent(shell *Shell, args []string) {

	if len(args) != 2 {
		fmt.Fprintln(shell, "Usage: show_event <event_id>")
		return
	}

	event, ok := shell.server.Model().Events.FindByID(args[1])
	if !ok {
		manageShellError(api.ErrNotFound)
	}

	fmt.Fprintln(shell, rp("-", 60))
	fmt.Fprintf(shell, "Id:          %v\n", event.Id())
	fmt.Fprintf(shell, "Title:       %v\n", event.Title())
	fmt.Fprintf(shell, "Description: %v\n", event.Description())
	fmt.Fprintf(shell, "When:        %v %v\n", event.Date(), event.Time())
	fmt.Fprintf(shell, "Location:    %v\n", event.Location())
	if c, ok := event.Coordinates(); ok {
		fmt.Fprintf(shell, "Coordinates: %v, %v\n", c.Lat, c.Lng)
	}
	fmt.Fprintf(shell, "Category:    %v\n", event.Category())
	fmt.Fprintf(shell, "Visibility:  %v\n", event.Visibility())
	fmt.Fprintf(shell, "Created by:  %v at %v\n", event.CreatedBy(), event.CreatedAt().Format("2006-01-02 15:04"))
	fmt.Fprintln(shell, rp("-", 60))

	rsvps := event.Rsvps()
	for _, status := range api.RsvpStatuses {
		members := rsvps.Members(status)
		fmt.Fprintf(shell, "%-10v (%v) %v\n", status, len(members), strings.Join(members, ", "))
	}
}

type eventFlags struct {
	set         *flag.FlagSet
	title       string
	description string
	date        string
	time        string
	location    string
	category    string
	visibility  string
	lat         float64
	lng         float64
	noCoords    bool
}

func newEventFlags(name string, out io.Writer) *eventFlags {
	f := &eventFlags{set: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.set.SetOutput(out)
	f.set.StringVar(&f.title, "title", "", "event title")
	f.set.StringVar(&f.description, "description", "", "event description")
	f.set.StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	f.set.StringVar(&f.time, "time", "", "time as HH:MM")
	f.set.StringVar(&f.location, "location", "", "where it happens")
	f.set.StringVar(&f.category, "category", "", "social, business, educational, entertainment, sports, arts, technology or other")
	f.set.StringVar(&f.visibility, "visibility", "", "public or private")
	f.set.Float64Var(&f.lat, "lat", 0, "latitude")
	f.set.Float64Var(&f.lng, "lng", 0, "longitude")
	f.set.BoolVar(&f.noCoords, "no-coords", false, "remove coordinates")
	return f
}

// visited returns the names of the flags given in the command line
func (f *eventFlags) visited() map[string]bool {
	names := make(map[string]bool)
	f.set.Visit(func(fl *flag.Flag) {
		names[fl.Name] = true
	})
	return names
}

func (f *eventFlags) coordinates(given map[string]bool) *api.CoordinatesDTO {
	if !given["lat"] && !given["lng"] {
		return nil
	}
	return &api.CoordinatesDTO{Lat: f.lat, Lng: f.lng}
}

// create_event -title T -description D -date YYYY-MM-DD -time HH:MM -location L [...]
func createEvent(shell *Shell, args []string) {

	f := newEventFlags("create_event", shell)
	if err := f.set.Parse(args[1:]); err != nil {
		return
	}

	given := f.visited()

	eventID, err := shell.server.Model().Manager.CreateEvent(shell.ctx, &model.EventDraft{
		Title:       f.title,
		Description: f.description,
		Date:        f.date,
		Time:        f.time,
		Location:    f.location,
		Coordinates: f.coordinates(given),
		Category:    api.Category(f.category),
		Visibility:  api.Visibility(f.visibility),
	})
	manageShellError(err)

	if eventID == "" {
		fmt.Fprintln(shell, "Not logged in")
		return
	}

	fmt.Fprintf(shell, "Event %v created\n", eventID)
}

// update_event <event_id> [-title T] [-date D] ...
func updateEvent(shell *Shell, args []string) {

	if len(args) < 3 {
		fmt.Fprintln(shell, "Usage: update_event <event_id> [-title T] [-description D] [-date YYYY-MM-DD] [-time HH:MM] [-location L] [-lat N -lng N | -no-coords] [-category C] [-visibility V]")
		return
	}

	f := newEventFlags("update_event", shell)
	if err := f.set.Parse(args[2:]); err != nil {
		return
	}

	given := f.visited()
	update := &model.EventUpdate{
		Coordinates:      f.coordinates(given),
		ClearCoordinates: f.noCoords,
	}

	if given["title"] {
		update.Title = &f.title
	}
	if given["description"] {
		update.Description = &f.description
	}
	if given["date"] {
		update.Date = &f.date
	}
	if given["time"] {
		update.Time = &f.time
	}
	if given["location"] {
		update.Location = &f.location
	}
	if given["category"] {
		category := api.Category(f.category)
		update.Category = &category
	}
	if given["visibility"] {
		visibility := api.Visibility(f.visibility)
		update.Visibility = &visibility
	}

	manageShellError(shell.server.Model().Manager.UpdateEvent(shell.ctx, args[1], update))
	fmt.Fprintf(shell, "Event %v updated\n", args[1])
}

// delete_event <event_id>
func deleteEvent(shell *Shell, args []string) {

	if len(args) != 2 {
		fmt.Fprintln(shell, "Usage: delete_event <event_id>")
		return
	}

	manageShellError(shell.server.Model().Manager.DeleteEvent(shell.ctx, args[1]))
	fmt.Fprintf(shell, "Event %v deleted\n", args[1])
}

// rsvp <event_id> <attending|maybe|declined>
func rsvp(shell *Shell, args []string) {

	if len(args) != 3 {
		fmt.Fprintln(shell, "Usage: rsvp <event_id> <attending|maybe|declined>")
		return
	}

	if _, ok := shell.server.Session().CurrentUserID(); !ok {
		fmt.Fprintln(shell, "Not logged in")
		return
	}

	status := api.RsvpStatus(strings.ToLower(args[2]))
	manageShellError(shell.server.Model().Rsvps.SetRsvp(shell.ctx, args[1], status))

	event, ok := shell.server.Model().Events.FindByID(args[1])
	if !ok {
		fmt.Fprintf(shell, "Event %v not found\n", args[1])
		return
	}

	counts := event.RsvpCounts()
	fmt.Fprintf(shell, "Attending %v, maybe %v, declined %v\n", counts.Attending, counts.Maybe, counts.Declined)
}
