package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/d3ce1t/areyouin-events/model"
	"github.com/imkira/go-observer"
)

// watch prints model signals until enter is pressed
func watch(shell *Shell, args []string) {

	m := shell.server.Model()
	storeStream := m.Events.Observe()
	rsvpStream := m.Rsvps.Observe()
	eventStream := m.Manager.Observe()

	done := make(chan error, 1)
	go func() {
		_, err := shell.readLine()
		done <- err
	}()

	fmt.Fprintln(shell, "Watching signals, press enter to stop")

	for {
		select {
		case <-storeStream.Changes():
			printSignal(shell, storeStream)
		case <-rsvpStream.Changes():
			printSignal(shell, rsvpStream)
		case <-eventStream.Changes():
			printSignal(shell, eventStream)
		case err := <-done:
			manageShellError(err)
			return
		case <-shell.ctx.Done():
			return
		}
	}
}

func printSignal(shell *Shell, stream observer.Stream) {

	stream.Next()
	signal, ok := stream.Value().(*model.Signal)
	if !ok || signal == nil {
		return
	}

	keys := make([]string, 0, len(signal.Data))
	for k := range signal.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%v=%v", k, signal.Data[k]))
	}

	fmt.Fprintf(shell, "* %v %v\n", signal.Type, strings.Join(fields, " "))
}
