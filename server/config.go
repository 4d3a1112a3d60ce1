package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/d3ce1t/areyouin-events/model"
	"github.com/d3ce1t/areyouin-events/reminder"
	"gopkg.in/yaml.v2"
)

// Environment variables overriding secrets of the config file
const (
	EnvGcmAPIKey   = "AYI_GCM_API_KEY"
	EnvSSHPassword = "AYI_SSH_PASSWORD"
)

type Config struct {
	data ConfigDTO

	feedPollInterval  time.Duration
	reminderPeriod    time.Duration
	reminderLeadTimes []time.Duration
}

func (c *Config) MemoryMode() bool {
	return c.data.MemoryMode
}

func (c *Config) DbAddress() []string {
	return c.data.DbAddress
}

func (c *Config) DbKeyspace() string {
	return c.data.DbKeyspace
}

func (c *Config) DbCQLVersion() int {
	return c.data.DbCQLVersion
}

func (c *Config) FeedPollInterval() time.Duration {
	return c.feedPollInterval
}

func (c *Config) RsvpStrategy() string {
	return c.data.RsvpStrategy
}

func (c *Config) ReminderPeriod() time.Duration {
	return c.reminderPeriod
}

func (c *Config) ReminderRepeat() bool {
	return c.data.ReminderRepeat
}

// ReminderLeadTimes returns the day before and hour before leads, in that
// order.
func (c *Config) ReminderLeadTimes() []time.Duration {
	return c.reminderLeadTimes
}

func (c *Config) PushEnabled() bool {
	return c.data.PushEnabled
}

func (c *Config) GcmAPIKey() string {
	return c.data.GcmAPIKey
}

func (c *Config) Language() string {
	return c.data.Language
}

func (c *Config) SSHListenAddress() string {
	return c.data.SSHListenAddress
}

func (c *Config) SSHListenPort() int {
	return c.data.SSHListenPort
}

func (c *Config) SSHHostKey() string {
	return c.data.SSHHostKey
}

func (c *Config) SSHUser() string {
	return c.data.SSHUser
}

func (c *Config) SSHPassword() string {
	return c.data.SSHPassword
}

type ConfigDTO struct {
	MemoryMode        bool     `yaml:"memory_mode,omitempty"`
	DbAddress         []string `yaml:"db_address,flow"`
	DbKeyspace        string   `yaml:"db_keyspace"`
	DbCQLVersion      int      `yaml:"db_cql_version,omitempty"`
	FeedPollInterval  string   `yaml:"feed_poll_interval,omitempty"`
	RsvpStrategy      string   `yaml:"rsvp_strategy,omitempty"`
	ReminderPeriod    string   `yaml:"reminder_period,omitempty"`
	ReminderRepeat    bool     `yaml:"reminder_repeat,omitempty"`
	ReminderLeadTimes []string `yaml:"reminder_lead_times,flow,omitempty"`
	PushEnabled       bool     `yaml:"push_enabled,omitempty"`
	GcmAPIKey         string   `yaml:"gcm_api_key,omitempty"`
	Language          string   `yaml:"language,omitempty"`
	SSHListenAddress  string   `yaml:"ssh_listen_address,omitempty"`
	SSHListenPort     int      `yaml:"ssh_listen_port,omitempty"`
	SSHHostKey        string   `yaml:"ssh_host_key,omitempty"`
	SSHUser           string   `yaml:"ssh_user,omitempty"`
	SSHPassword       string   `yaml:"ssh_password,omitempty"`
}

func loadConfigFromFile(file string) (*Config, error) {

	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {

	config := &Config{}

	err := yaml.Unmarshal(data, &config.data)
	if err != nil {
		return nil, err
	}

	if err := config.setDefaults(); err != nil {
		return nil, err
	}

	return config, nil
}

// Set defaults if values are unset and parse durations
func (config *Config) setDefaults() error {

	if len(config.data.DbAddress) == 0 {
		config.data.DbAddress = []string{"127.0.0.1"}
	}

	if config.data.DbKeyspace == "" {
		config.data.DbKeyspace = "areyouin"
	}

	if config.data.DbCQLVersion == 0 {
		config.data.DbCQLVersion = 2
	}

	if config.data.RsvpStrategy == "" {
		config.data.RsvpStrategy = string(model.RsvpStrategy_ATOMIC)
	}

	if _, err := model.ParseRsvpStrategy(config.data.RsvpStrategy); err != nil {
		return fmt.Errorf("rsvp_strategy %q: %w", config.data.RsvpStrategy, err)
	}

	if config.data.Language == "" {
		config.data.Language = "en"
	}

	if config.data.SSHListenAddress == "" {
		config.data.SSHListenAddress = "127.0.0.1"
	}

	if config.data.SSHListenPort == 0 {
		config.data.SSHListenPort = 2022
	}

	if config.data.SSHHostKey == "" {
		config.data.SSHHostKey = "cert/server_rsa"
	}

	if config.data.SSHUser == "" {
		config.data.SSHUser = "admin"
	}

	var err error

	config.feedPollInterval, err = parseDuration("feed_poll_interval", config.data.FeedPollInterval, 2*time.Second)
	if err != nil {
		return err
	}

	config.reminderPeriod, err = parseDuration("reminder_period", config.data.ReminderPeriod, reminder.DefaultPeriod)
	if err != nil {
		return err
	}

	leads := config.data.ReminderLeadTimes
	if len(leads) == 0 {
		config.reminderLeadTimes = []time.Duration{reminder.DefaultDayBeforeLead, reminder.DefaultHourBeforeLead}
	} else if len(leads) == 2 {
		config.reminderLeadTimes = make([]time.Duration, 2)
		for i, lead := range leads {
			if config.reminderLeadTimes[i], err = parseDuration("reminder_lead_times", lead, 0); err != nil {
				return err
			}
		}
	} else {
		return fmt.Errorf("reminder_lead_times: expected 2 values, got %v", len(leads))
	}

	return nil
}

// applyEnv lets secrets live outside the config file.
func (config *Config) applyEnv() {

	if key := os.Getenv(EnvGcmAPIKey); key != "" {
		config.data.GcmAPIKey = key
	}

	if password := os.Getenv(EnvSSHPassword); password != "" {
		config.data.SSHPassword = password
	}
}

func parseDuration(name string, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%v: invalid duration %q", name, value)
	}
	return d, nil
}
