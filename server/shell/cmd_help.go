package shell

import (
	"fmt"
	"sort"
)

var usages = map[string]string{
	"help":           "[command]",
	"version":        "",
	"status":         "",
	"login":          "<user_id>",
	"logout":         "",
	"whoami":         "",
	"list_events":    "[all|mine|upcoming|past|attending]",
	"show_event":     "<event_id>",
	"create_event":   "-title T -description D -date YYYY-MM-DD -time HH:MM -location L [-lat N -lng N]",
	"update_event":   "<event_id> [flags of create_event] [-no-coords]",
	"delete_event":   "<event_id>",
	"rsvp":           "<event_id> <attending|maybe|declined>",
	"reminders":      "",
	"notifications":  "[dismiss|click <tag>] [permission granted|denied]",
	"register_token": "<user_id> [iid_token]",
	"watch":          "",
}

// help [command] lists commands with their arguments
func help(shell *Shell, args []string) {

	if len(args) == 2 {
		if _, ok := shell.commands[args[1]]; !ok {
			fmt.Fprintf(shell, "Command %v does not exist\n", args[1])
			return
		}
		fmt.Fprintf(shell, "Usage: %v %v\n", args[1], usages[args[1]])
		return
	}

	names := make([]string, 0, len(shell.commands))
	for name := range shell.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(shell, "%-16v %v\n", "Command", "Arguments")
	fmt.Fprintln(shell, rp("-", 60))

	for _, name := range names {
		fmt.Fprintf(shell, "%-16v %v\n", name, usages[name])
	}
}
