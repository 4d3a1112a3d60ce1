package shell

import "fmt"

// version
func version(shell *Shell, args []string) {
	fmt.Fprintf(shell, "Version %v Build %v\n", shell.server.Version(), shell.server.BuildTime())
}

// status
func status(shell *Shell, args []string) {

	m := shell.server.Model()
	userID, ok := shell.server.Session().CurrentUserID()
	if !ok {
		userID = "-"
	}

	fmt.Fprintf(shell, "User:          %v\n", userID)
	fmt.Fprintf(shell, "Feed loaded:   %v\n", m.Events.Loaded())
	fmt.Fprintf(shell, "Snapshot seq:  %v\n", m.Events.Seq())
	if age := m.Events.LastSnapshotAge(); age >= 0 {
		fmt.Fprintf(shell, "Snapshot age:  %v\n", age)
	}
	fmt.Fprintf(shell, "Events:        %v\n", len(m.Events.CurrentEvents()))
	fmt.Fprintf(shell, "RSVP strategy: %v\n", m.Rsvps.Strategy())

	if scheduler := shell.server.Scheduler(); scheduler != nil {
		fmt.Fprintf(shell, "Reminders:     %v (%v passes)\n", scheduler.State(), scheduler.Passes())
	}
}
