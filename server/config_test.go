package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/d3ce1t/areyouin-events/model"
	"github.com/d3ce1t/areyouin-events/reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {

	config, err := parseConfig(nil)
	require.NoError(t, err)

	assert.False(t, config.MemoryMode())
	assert.Equal(t, []string{"127.0.0.1"}, config.DbAddress())
	assert.Equal(t, "areyouin", config.DbKeyspace())
	assert.Equal(t, 2, config.DbCQLVersion())
	assert.Equal(t, 2*time.Second, config.FeedPollInterval())
	assert.Equal(t, string(model.RsvpStrategy_ATOMIC), config.RsvpStrategy())
	assert.Equal(t, reminder.DefaultPeriod, config.ReminderPeriod())
	assert.Equal(t, []time.Duration{24 * time.Hour, time.Hour}, config.ReminderLeadTimes())
	assert.False(t, config.ReminderRepeat())
	assert.Equal(t, "en", config.Language())
	assert.Equal(t, 2022, config.SSHListenPort())
	assert.Equal(t, "admin", config.SSHUser())
	assert.Equal(t, "", config.SSHPassword())
}

func TestParseConfig_Values(t *testing.T) {

	data := []byte(`
db_address: [10.0.0.1, 10.0.0.2]
db_keyspace: events
db_cql_version: 4
feed_poll_interval: 500ms
rsvp_strategy: overwrite
reminder_period: 1m
reminder_repeat: true
reminder_lead_times: [12h, 30m]
push_enabled: true
gcm_api_key: secret
language: es
ssh_listen_port: 2222
`)

	config, err := parseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, config.DbAddress())
	assert.Equal(t, "events", config.DbKeyspace())
	assert.Equal(t, 4, config.DbCQLVersion())
	assert.Equal(t, 500*time.Millisecond, config.FeedPollInterval())
	assert.Equal(t, "overwrite", config.RsvpStrategy())
	assert.Equal(t, time.Minute, config.ReminderPeriod())
	assert.True(t, config.ReminderRepeat())
	assert.Equal(t, []time.Duration{12 * time.Hour, 30 * time.Minute}, config.ReminderLeadTimes())
	assert.True(t, config.PushEnabled())
	assert.Equal(t, "secret", config.GcmAPIKey())
	assert.Equal(t, "es", config.Language())
	assert.Equal(t, 2222, config.SSHListenPort())
}

func TestParseConfig_Invalid(t *testing.T) {

	var tests = []string{
		"rsvp_strategy: merge",
		"reminder_period: soon",
		"feed_poll_interval: -1s",
		"reminder_lead_times: [1h]",
		"reminder_lead_times: [24h, never]",
		"db_address: {",
	}

	for i, test := range tests {
		if _, err := parseConfig([]byte(test)); err == nil {
			t.Fatalf("test %v: Expected error for '%v' but got nil", i, test)
		}
	}
}

func TestReadConfig(t *testing.T) {

	dir := t.TempDir()
	file := filepath.Join(dir, "areyouin.yaml")
	require.NoError(t, os.WriteFile(file, []byte("ssh_password: fromfile\ngcm_api_key: fromfile\n"), 0600))

	t.Setenv(EnvSSHPassword, "fromenv")

	config, err := readConfig(file, true)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", config.SSHPassword())
	assert.Equal(t, "fromfile", config.GcmAPIKey())

	missing := filepath.Join(dir, "missing.yaml")

	_, err = readConfig(missing, true)
	assert.Error(t, err)

	config, err = readConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, "areyouin", config.DbKeyspace())
}
