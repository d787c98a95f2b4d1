package cmd

import (
	"time"

	"github.com/curatorbot/curator/core/config"
	"github.com/curatorbot/curator/pkg/timeutils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagPort  string
	flagDebug bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Content curation bot for a Telegram group",
	Long: `Curator takes forwarded messages from the admin, rewrites them through a
text-generation API and publishes them into a group, either immediately or
on a recurring weekly posting calendar.`,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "override the ops API port | example: --port=8080")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug logging | example: --debug=true")

	cobra.OnInitialize(initConfig, initLogger)
}

// initConfig loads the .env-backed configuration and pins the process to
// the configured fixed UTC offset; all calendar math is naive local time.
func initConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	if err := viper.ReadInConfig(); err == nil {
		logrus.Debugf("loaded settings from %s", viper.ConfigFileUsed())
	}
	viper.AutomaticEnv()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	applyViperConfig(cfg)

	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug {
		cfg.App.Debug = true
	}

	time.Local = timeutils.FixedZone(cfg.App.UTCOffsetHours)
}

// applyViperConfig overlays everything viper picked up (the .env file and,
// through AutomaticEnv, the process environment) onto the loaded defaults.
func applyViperConfig(cfg *config.Config) {
	// Application settings
	if v := viper.GetString("app_port"); v != "" {
		cfg.App.Port = v
	}
	if viper.IsSet("app_debug") {
		cfg.App.Debug = viper.GetBool("app_debug")
	}
	if v := viper.GetString("app_env"); v != "" {
		cfg.App.Environment = v
	}
	if viper.IsSet("app_utc_offset") {
		cfg.App.UTCOffsetHours = viper.GetInt("app_utc_offset")
	}

	// Telegram settings
	if v := viper.GetString("api_token"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if viper.IsSet("group_id") {
		cfg.Telegram.GroupID = viper.GetInt64("group_id")
	}
	if viper.IsSet("admin_id") {
		cfg.Telegram.AdminID = viper.GetInt64("admin_id")
	}

	// AI settings
	if v := viper.GetString("deepseek_api_key"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := viper.GetString("ai_base_url"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := viper.GetString("ai_model"); v != "" {
		cfg.AI.Model = v
	}
	if viper.IsSet("ai_max_tokens") {
		cfg.AI.MaxTokens = viper.GetInt64("ai_max_tokens")
	}
	if viper.IsSet("ai_temperature") {
		cfg.AI.Temperature = viper.GetFloat64("ai_temperature")
	}
	if viper.IsSet("ai_request_timeout_sec") {
		cfg.AI.RequestTimeout = time.Duration(viper.GetInt("ai_request_timeout_sec")) * time.Second
	}

	// Schedule settings
	if v := viper.GetString("schedule_file"); v != "" {
		cfg.Schedule.File = v
	}
	if viper.IsSet("scheduler_poll_interval_sec") {
		cfg.Schedule.PollInterval = time.Duration(viper.GetInt("scheduler_poll_interval_sec")) * time.Second
	}
	if viper.IsSet("schedule_horizon_days") {
		cfg.Schedule.HorizonDays = viper.GetInt("schedule_horizon_days")
	}
	if viper.IsSet("scheduler_max_publish_retries") {
		cfg.Schedule.MaxPublishRetries = viper.GetInt("scheduler_max_publish_retries")
	}
	if viper.IsSet("schedule_distribute_lead_min") {
		cfg.Schedule.DistributeLeadTime = time.Duration(viper.GetInt("schedule_distribute_lead_min")) * time.Minute
	}
	if viper.IsSet("schedule_cleanup_after_days") {
		cfg.Schedule.CleanupAfterDays = viper.GetInt("schedule_cleanup_after_days")
	}

	if v := viper.GetString("path_prompts"); v != "" {
		cfg.Paths.Prompts = v
	}
}

func initLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if config.Global.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Execute adds all child commands to the root command. This is called by
// main.main() and only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
