package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Hours.OpenHour)
	assert.Equal(t, 23, cfg.Hours.CloseHour)
	assert.Equal(t, time.Minute, cfg.Hours.PollInterval)
	assert.Equal(t, 2200*time.Millisecond, cfg.PopupDelay)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "963111111111", cfg.Dispatch.Phone)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Dispatch.KafkaBrokerList)
	assert.False(t, cfg.Dispatch.RequireAck)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "besteats.yaml")
	content := `
profile: kitchen
hours:
  open_hour: 8
  poll_interval: 30s
dispatch:
  channel: kafka
  kafka_broker_list: "k1:9092,k2:9092"
storage:
  backend: memory
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("BESTEATS_DISPATCH_PHONE", "4900000")

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "kitchen", cfg.Profile)
	assert.Equal(t, 8, cfg.Hours.OpenHour)
	assert.Equal(t, 23, cfg.Hours.CloseHour)
	assert.Equal(t, 30*time.Second, cfg.Hours.PollInterval)
	assert.Equal(t, "kafka", cfg.Dispatch.Channel)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Dispatch.KafkaBrokerList)
	assert.Equal(t, "4900000", cfg.Dispatch.Phone)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Profile: "p", Hours: HoursConfig{OpenHour: 10, CloseHour: 23, PollInterval: time.Minute}, Dispatch: DispatchConfig{Phone: "1"}}
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Hours.OpenHour = 30
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Dispatch.Phone = " "
	assert.Error(t, bad.Validate())
}
