package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/d3ce1t/areyouin-events/api"
	"github.com/d3ce1t/areyouin-events/auth"
	"github.com/d3ce1t/areyouin-events/cqldao"
	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/d3ce1t/areyouin-events/memdao"
	"github.com/d3ce1t/areyouin-events/model"
	"github.com/d3ce1t/areyouin-events/notify"
	"github.com/d3ce1t/areyouin-events/reminder"
	"github.com/d3ce1t/areyouin-events/server/shell"
)

const (
	BUILD_VERSION   = "2.0.0"
	DB_RETRY_PERIOD = 5 * time.Second
	DB_LOAD_TIMEOUT = 10 * time.Second
)

// Filled in by the linker
var buildTime = "unknown"

type Server struct {
	config    *Config
	dao       api.EventDAO
	closeDAO  func()
	model     *model.AyiModel
	session   *auth.Session
	sub       *model.Subscription
	console   *notify.ConsolePlatform
	push      *notify.GcmPlatform
	navigator *notify.RouteNavigator
	prompts   *notify.TaskExecutor
	scheduler *reminder.Scheduler
	observer  *ModelObserver
}

// NewServer connects the event feed and builds every component on top of it.
// Cassandra connection is retried until ctx is done.
func NewServer(ctx context.Context, config *Config) (*Server, error) {

	s := &Server{
		config:    config,
		session:   auth.NewSession(),
		navigator: notify.NewRouteNavigator(),
		prompts:   notify.NewTaskExecutor(),
	}

	if err := s.connectToDB(ctx); err != nil {
		return nil, err
	}

	if err := s.init(); err != nil {
		s.closeDAO()
		return nil, err
	}

	return s, nil
}

func (s *Server) connectToDB(ctx context.Context) error {

	if s.config.MemoryMode() {
		s.dao = memdao.NewEventDAO()
		s.closeDAO = func() {}
		logger.LogW("Server: memory mode, events are not persisted")
		return nil
	}

	session := cqldao.NewSession(s.config.DbKeyspace(), s.config.DbCQLVersion(), s.config.DbAddress()...)

	err := session.Connect()

	for err != nil {
		logger.LogEf("Server: cannot connect to Cassandra %v (%v)", s.config.DbAddress(), err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(DB_RETRY_PERIOD):
		}
		err = session.Connect()
	}

	logger.LogI("Server: connected to Cassandra successfully")

	if err := cqldao.CreateSchema(session); err != nil {
		session.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	dao := cqldao.NewEventDAO(session,
		cqldao.WithPollInterval(s.config.FeedPollInterval()),
		cqldao.WithLoadTimeout(DB_LOAD_TIMEOUT))
	s.dao = dao
	s.closeDAO = func() {
		dao.Close()
		session.Close()
	}

	return nil
}

func (s *Server) init() error {

	strategy, err := model.ParseRsvpStrategy(s.config.RsvpStrategy())
	if err != nil {
		return err
	}

	s.model = model.New(s.dao, s.session, model.WithRsvpStrategy(strategy))

	var platform api.NotificationPlatform

	if s.config.PushEnabled() {
		s.push = notify.NewGcmPlatform(s.config.GcmAPIKey(), true, s.session, s.model.Clock)
		platform = s.push
	} else {
		s.console = notify.NewConsolePlatform(os.Stdout, api.Permission_GRANTED)
		platform = s.console
	}

	prompter := notify.NewConsolePrompter(os.Stdin, os.Stdout)
	dispatcher := notify.NewDispatcher(platform, prompter, s.navigator, notify.ParseLang(s.config.Language()))
	dispatcher.SetPromptExecutor(s.prompts)

	leads := s.config.ReminderLeadTimes()
	s.scheduler, err = reminder.New(s.model.Events, s.session, dispatcher,
		reminder.WithPeriod(s.config.ReminderPeriod()),
		reminder.WithLeadTimes(leads[0], leads[1]),
		reminder.WithRepeat(s.config.ReminderRepeat()))
	if err != nil {
		return err
	}

	s.observer = newModelObserver(s.model)

	return nil
}

// Run starts every component and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {

	s.sub = s.model.Events.Subscribe()
	s.prompts.Start()

	go s.observer.run(ctx)

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	if s.config.SSHPassword() != "" {
		go func() {
			err := shell.StartSSH(ctx, s, shell.SSHConfig{
				Address:  s.config.SSHListenAddress(),
				Port:     s.config.SSHListenPort(),
				HostKey:  s.config.SSHHostKey(),
				User:     s.config.SSHUser(),
				Password: s.config.SSHPassword(),
			})
			if err != nil {
				logger.LogEf("Server: SSH shell stopped: %v", err)
			}
		}()
	} else {
		logger.LogW("Server: SSH shell disabled, no password configured")
	}

	logger.LogIf("Server: running version %v, rsvp strategy %v", BUILD_VERSION, s.model.Rsvps.Strategy())

	<-ctx.Done()

	s.Close()

	return nil
}

// Close stops the scheduler, the feed and pending prompts.
func (s *Server) Close() {
	s.scheduler.Stop()
	if s.sub != nil {
		s.sub.Close()
	}
	s.prompts.Stop()
	s.closeDAO()
	logger.LogI("Server: closed")
}

func (s *Server) Version() string {
	return BUILD_VERSION
}

func (s *Server) BuildTime() string {
	return buildTime
}

func (s *Server) Model() *model.AyiModel {
	return s.model
}

func (s *Server) Session() *auth.Session {
	return s.session
}

func (s *Server) Scheduler() *reminder.Scheduler {
	return s.scheduler
}

func (s *Server) Console() *notify.ConsolePlatform {
	return s.console
}

func (s *Server) Push() *notify.GcmPlatform {
	return s.push
}

// DAO exposes the feed backend, used to seed demo data
func (s *Server) DAO() api.EventDAO {
	return s.dao
}
