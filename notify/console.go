package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/utils"
)

// ConsolePlatform prints notifications to a writer and keeps the visible ones
// until they are clicked or dismissed. A notification replaces the visible
// one with the same tag.
type ConsolePlatform struct {
	mutex      sync.Mutex
	out        io.Writer
	permission api.NotificationPermission
	answer     api.NotificationPermission
	visible    *utils.Queue[*api.NotificationDTO]
}

// NewConsolePlatform starts with permission undetermined; answer is what the
// user replies when asked.
func NewConsolePlatform(out io.Writer, answer api.NotificationPermission) *ConsolePlatform {
	return &ConsolePlatform{
		out:        out,
		permission: api.Permission_UNDETERMINED,
		answer:     answer,
		visible:    utils.NewQueue[*api.NotificationDTO](),
	}
}

func (p *ConsolePlatform) Permission() api.NotificationPermission {
	defer p.mutex.Unlock()
	p.mutex.Lock()
	return p.permission
}

func (p *ConsolePlatform) SetPermission(permission api.NotificationPermission) {
	p.mutex.Lock()
	p.permission = permission
	p.mutex.Unlock()
}

func (p *ConsolePlatform) RequestPermission(ctx context.Context) (api.NotificationPermission, error) {

	if err := ctx.Err(); err != nil {
		return api.Permission_UNDETERMINED, err
	}

	defer p.mutex.Unlock()
	p.mutex.Lock()

	if p.permission == api.Permission_UNDETERMINED {
		p.permission = p.answer
	}

	return p.permission, nil
}

func (p *ConsolePlatform) Show(n *api.NotificationDTO) error {

	if p.out == nil {
		return api.ErrPlatformUnavailable
	}

	if p.Permission() != api.Permission_GRANTED {
		return api.ErrPlatformUnavailable
	}

	replaced := p.visible.AddWithKey(n.Tag, n)

	p.mutex.Lock()
	_, err := fmt.Fprintf(p.out, "[%v] %v\n%v\n", n.Tag, n.Title, n.Body)
	p.mutex.Unlock()

	if err != nil {
		return err
	}

	if replaced {
		logger.LogDf("ConsolePlatform: %v replaced", n.Tag)
	}

	return nil
}

// Visible returns the notifications on screen, oldest first.
func (p *ConsolePlatform) Visible() []*api.NotificationDTO {
	return p.visible.Items()
}

func (p *ConsolePlatform) Dismiss(tag string) bool {
	_, ok := p.visible.RemoveKey(tag)
	return ok
}

// Click removes the notification with tag and runs its click action.
func (p *ConsolePlatform) Click(tag string) bool {
	n, ok := p.visible.RemoveKey(tag)
	if !ok {
		return false
	}
	if n.OnClick != nil {
		n.OnClick()
	}
	return true
}

// ConsolePrompter asks yes/no questions on a terminal.
type ConsolePrompter struct {
	mutex sync.Mutex
	in    *bufio.Reader
	out   io.Writer
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *ConsolePrompter) Confirm(title string, body string) (bool, error) {

	defer p.mutex.Unlock()
	p.mutex.Lock()

	if _, err := fmt.Fprintf(p.out, "%v\n\n%v\n[y/N] ", title, body); err != nil {
		return false, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == "yes" || answer == "ok", nil
}

// RouteNavigator records the views opened from notifications.
type RouteNavigator struct {
	mutex   sync.Mutex
	history []string
}

func NewRouteNavigator() *RouteNavigator {
	return &RouteNavigator{}
}

func (n *RouteNavigator) OpenEvent(eventID string) {
	path := api.EventPath(eventID)
	n.mutex.Lock()
	n.history = append(n.history, path)
	n.mutex.Unlock()
	logger.LogIf("Navigator: open %v", path)
}

func (n *RouteNavigator) Current() string {
	defer n.mutex.Unlock()
	n.mutex.Lock()
	if len(n.history) == 0 {
		return ""
	}
	return n.history[len(n.history)-1]
}
