package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/d3ce1t/areyouin-events/auth"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/model"
	"github.com/d3ce1t/areyouin-events/notify"
	"github.com/d3ce1t/areyouin-events/reminder"
)

// Server is what the shell needs from the running process.
type Server interface {
	Version() string
	BuildTime() string
	Model() *model.AyiModel
	Session() *auth.Session
	Scheduler() *reminder.Scheduler
	// Console returns nil when notifications are pushed through GCM
	Console() *notify.ConsolePlatform
	// Push returns nil unless push is enabled
	Push() *notify.GcmPlatform
}

type Command func(*Shell, []string)

type Shell struct {
	io.ReadWriter
	in       *bufio.Reader
	ctx      context.Context
	welcome  string
	prompt   string
	commands map[string]Command
	server   Server
	OnStart  func(*Shell)
}

func NewShell(ctx context.Context, server Server, rw io.ReadWriter) *Shell {
	shell := &Shell{
		ReadWriter: rw,
		in:         bufio.NewReader(rw),
		ctx:        ctx,
		welcome:    "Welcome to AreYouIN events shell\n",
		prompt:     "areyouin$>",
		server:     server,
	}
	shell.init()
	return shell
}

// Shell wrapper to manage errors
func (s *Shell) Run() {

	if s.OnStart != nil {
		s.OnStart(s)
	}

	fmt.Fprintf(s, "\n%s\n\n", s.welcome)
	exit := false

	for !exit {
		exit = s.executeShell()
	}

	fmt.Fprintln(s, "Good bye")
	logger.LogI("Shell session terminated")
}

func (s *Shell) init() {
	s.commands = map[string]Command{
		"help":           help,
		"version":        version,
		"status":         status,
		"login":          login,
		"logout":         logout,
		"whoami":         whoami,
		"list_events":    listEvents,
		"show_event":     showEvent,
		"create_event":   createEvent,
		"update_event":   updateEvent,
		"delete_event":   deleteEvent,
		"rsvp":           rsvp,
		"reminders":      reminders,
		"notifications":  notifications,
		"register_token": registerToken,
		"watch":          watch,
	}
}

func (s *Shell) executeShell() (exit bool) {

	// Defer recovery
	defer func() {
		if r := recover(); r != nil {

			err, ok := r.(error)

			if ok {
				if err == io.EOF {
					exit = true
				} else {
					exit = false
					fmt.Fprintf(s, "Error: %v\r\n", err)
				}
			} else {
				exit = true
			}
			logger.LogEf("Shell Error: %v", r)
		}
	}()

	for {
		// Show prompt
		fmt.Fprint(s, s.prompt+" ")

		// Read command
		line, err := s.in.ReadString('\n')
		if err == io.EOF && strings.TrimSpace(line) != "" {
			err = nil
		}
		manageShellError(err)

		args := splitArgs(strings.TrimSpace(line))
		if len(args) == 0 {
			continue
		}

		if args[0] == "exit" {
			return true
		}

		if command, ok := s.commands[args[0]]; ok {
			command(s, args)
		} else {
			fmt.Fprintf(s, "Command %s does not exist\r\n", args[0])
		}

	} // Loop
}

// readLine reads the next input line, used by commands that wait for the user
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

func manageShellError(err error) {
	if err != nil {
		panic(err)
	}
}

// splitArgs splits a command line by spaces keeping double quoted text together.
func splitArgs(line string) []string {

	args := make([]string, 0)
	var current strings.Builder
	quoted := false
	pending := false

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case r == ' ' && !quoted:
			if pending {
				args = append(args, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}

	if pending {
		args = append(args, current.String())
	}

	return args
}

func ff(text interface{}, lenght int) string {
	s := fmt.Sprintf("%v", text)
	if len(s) > lenght {
		s = s[:lenght]
	}
	return s
}

func rp(str string, lenght int) string {
	return strings.Repeat(str, lenght)
}
