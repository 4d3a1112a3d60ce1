package api

import "time"

type Config interface {
	MemoryMode() bool
	DbAddress() []string
	DbKeyspace() string
	DbCQLVersion() int
	FeedPollInterval() time.Duration
	RsvpStrategy() string
	ReminderPeriod() time.Duration
	ReminderRepeat() bool
	ReminderLeadTimes() []time.Duration
	PushEnabled() bool
	GcmAPIKey() string
	Language() string
	SSHListenAddress() string
	SSHListenPort() int
	SSHHostKey() string
	SSHUser() string
	SSHPassword() string
}
