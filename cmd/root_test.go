package cmd

import (
	"testing"
	"time"

	"github.com/curatorbot/curator/core/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestApplyViperConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("app_port", "9090")
	viper.Set("app_debug", true)
	viper.Set("group_id", int64(-100200300))
	viper.Set("deepseek_api_key", "sk-from-viper")
	viper.Set("scheduler_poll_interval_sec", 15)
	viper.Set("schedule_distribute_lead_min", 10)

	cfg := &config.Config{
		App: config.AppConfig{Port: "3000", UTCOffsetHours: 5},
		AI:  config.AIConfig{BaseURL: "https://api.deepseek.com"},
		Schedule: config.ScheduleConfig{
			PollInterval:       time.Minute,
			DistributeLeadTime: 30 * time.Minute,
			HorizonDays:        7,
		},
	}
	applyViperConfig(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, int64(-100200300), cfg.Telegram.GroupID)
	assert.Equal(t, "sk-from-viper", cfg.AI.APIKey)
	assert.Equal(t, 15*time.Second, cfg.Schedule.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Schedule.DistributeLeadTime)

	// Settings viper never saw keep their loaded values.
	assert.Equal(t, 5, cfg.App.UTCOffsetHours)
	assert.Equal(t, "https://api.deepseek.com", cfg.AI.BaseURL)
	assert.Equal(t, 7, cfg.Schedule.HorizonDays)
}
