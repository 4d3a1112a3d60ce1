package shell

import (
	"fmt"

	"github.com/d3ce1t/areyouin-events/api"
)

// reminders runs a reminder pass right away
func reminders(shell *Shell, args []string) {

	scheduler := shell.server.Scheduler()
	if scheduler == nil {
		fmt.Fprintln(shell, "Reminders are disabled")
		return
	}

	due := scheduler.RunPass(shell.ctx)

	for _, r := range due {
		fmt.Fprintf(shell, "- %-11v %-20v %v (%v)\n", r.Kind, ff(r.EventId, 20), r.EventTitle, r.StartsAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintln(shell, "Num. Reminders:", len(due))
}

const notificationsUsage = "Usage: notifications [dismiss|click <tag>] [permission granted|denied]"

// notifications [dismiss|click <tag>] [permission granted|denied]
func notifications(shell *Shell, args []string) {

	console := shell.server.Console()
	if console == nil {
		fmt.Fprintln(shell, "Notifications are pushed through GCM")
		return
	}

	if len(args) == 3 {
		var ok bool
		switch args[1] {
		case "dismiss":
			ok = console.Dismiss(args[2])
		case "click":
			ok = console.Click(args[2])
		case "permission":
			switch args[2] {
			case "granted":
				console.SetPermission(api.Permission_GRANTED)
			case "denied":
				console.SetPermission(api.Permission_DENIED)
			default:
				fmt.Fprintln(shell, notificationsUsage)
				return
			}
			fmt.Fprintf(shell, "Permission: %v\n", console.Permission())
			return
		default:
			fmt.Fprintln(shell, notificationsUsage)
			return
		}
		if !ok {
			fmt.Fprintf(shell, "No notification with tag %v\n", args[2])
		}
		return
	}

	if len(args) != 1 {
		fmt.Fprintln(shell, notificationsUsage)
		return
	}

	fmt.Fprintf(shell, "Permission: %v\n", console.Permission())

	for _, n := range console.Visible() {
		fmt.Fprintf(shell, "- [%v] %v\n  %v\n", n.Tag, n.Title, n.Body)
	}
}

// register_token <user_id> <iid_token>
func registerToken(shell *Shell, args []string) {

	push := shell.server.Push()
	if push == nil {
		fmt.Fprintln(shell, "Push notifications are disabled")
		return
	}

	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(shell, "Usage: register_token <user_id> [iid_token]")
		return
	}

	token := ""
	if len(args) == 3 {
		token = args[2]
	}

	push.RegisterToken(args[1], token)

	if token == "" {
		fmt.Fprintf(shell, "Token of %v removed\n", args[1])
	} else {
		fmt.Fprintf(shell, "Token of %v registered\n", args[1])
	}
}
