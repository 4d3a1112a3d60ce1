package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/utils"
	gcm "github.com/google/go-gcm"
)

// GCM Settings
const (
	GcmMaxTTL = 2419200 // 4 weeks, in seconds
)

type gcmSender func(apiKey string, message gcm.HttpMessage) (*gcm.HttpResponse, error)

// GcmPlatform pushes notifications to the device token registered by the
// signed in user. Push is granted once a token is registered.
type GcmPlatform struct {
	apiKey  string
	enabled bool
	auth    api.Authenticator
	clock   utils.Clock
	send    gcmSender

	mutex  sync.RWMutex
	tokens map[string]string // userID -> token
}

func NewGcmPlatform(apiKey string, enabled bool, auth api.Authenticator, clock utils.Clock) *GcmPlatform {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &GcmPlatform{
		apiKey:  apiKey,
		enabled: enabled && apiKey != "",
		auth:    auth,
		clock:   clock,
		send:    gcm.SendHttp,
		tokens:  make(map[string]string),
	}
}

func (p *GcmPlatform) RegisterToken(userID string, token string) {
	p.mutex.Lock()
	if token == "" {
		delete(p.tokens, userID)
	} else {
		p.tokens[userID] = token
	}
	p.mutex.Unlock()
}

func (p *GcmPlatform) token() (string, bool) {

	userID, ok := p.auth.CurrentUserID()
	if !ok {
		return "", false
	}

	defer p.mutex.RUnlock()
	p.mutex.RLock()

	token, ok := p.tokens[userID]
	return token, ok
}

func (p *GcmPlatform) Permission() api.NotificationPermission {

	if !p.enabled {
		return api.Permission_DENIED
	}

	if _, ok := p.token(); ok {
		return api.Permission_GRANTED
	}

	return api.Permission_UNDETERMINED
}

// RequestPermission cannot prompt a device; it reports whether a token has
// been registered meanwhile.
func (p *GcmPlatform) RequestPermission(ctx context.Context) (api.NotificationPermission, error) {
	if err := ctx.Err(); err != nil {
		return api.Permission_UNDETERMINED, err
	}
	return p.Permission(), nil
}

func (p *GcmPlatform) Show(n *api.NotificationDTO) error {

	if !p.enabled {
		return api.ErrPlatformUnavailable
	}

	token, ok := p.token()
	if !ok {
		return api.ErrPlatformUnavailable
	}

	message := gcm.HttpMessage{
		To:          token,
		Priority:    "high",
		CollapseKey: n.Tag,
		Notification: &gcm.Notification{
			Title:       n.Title,
			Body:        n.Body,
			Tag:         n.Tag,
			ClickAction: api.EventPath(n.EventId),
		},
		ContentAvailable: true, // For iOS
	}

	if !n.ExpiresAt.IsZero() {
		ttl := n.ExpiresAt.Sub(p.clock.Now())
		if ttl <= 0 {
			return nil
		}
		gcmTTL := uint(utils.MinInt64(int64(ttl/time.Second), GcmMaxTTL))
		message.TimeToLive = &gcmTTL
	}

	return p.sendGcmMessage(message)
}

func (p *GcmPlatform) sendGcmMessage(message gcm.HttpMessage) error {

	logger.LogDf("GcmPlatform: send %v", message.CollapseKey)
	response, err := p.send(p.apiKey, message)

	if err != nil && response != nil {
		logger.LogEf("GcmPlatform: error %v (resp.Error: %v)", err, response.Error)
		return err
	} else if err != nil {
		logger.LogEf("GcmPlatform: error %v", err)
		return err
	}

	if response != nil && response.Failure > 0 {
		logger.LogWf("GcmPlatform: push rejected: %v", response.Error)
		return fmt.Errorf("gcm: %v failed deliveries", response.Failure)
	}

	logger.LogDf("GcmPlatform: response %v", response)

	return nil
}
