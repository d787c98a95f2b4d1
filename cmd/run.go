package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curatorbot/curator/core/config"
	"github.com/curatorbot/curator/domains/calendar"
	domainPost "github.com/curatorbot/curator/domains/post"
	"github.com/curatorbot/curator/infrastructure/telegram"
	"github.com/curatorbot/curator/ui/rest"
	"github.com/curatorbot/curator/ui/rest/middleware"
	"github.com/curatorbot/curator/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the curation bot and its ops API",
	Run:   runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBot(_ *cobra.Command, _ []string) {
	cfg := config.Global

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			logrus.Error(err)
		}
		logrus.Fatal("configuration is incomplete, aborting")
	}

	cal := loadCalendar(cfg)
	logrus.Infof("posting calendar:\n%s", cal.Summary())

	store := usecase.NewPostStore()
	slots := usecase.NewSlotService(cal)
	rewriter := usecase.NewRewriteService(cfg.AI, cfg.Paths.Prompts)

	publisher, err := telegram.NewPublisher(cfg.Telegram.BotToken, cfg.Telegram.GroupID)
	if err != nil {
		logrus.Fatalf("failed to initialize telegram publisher: %v", err)
	}

	scheduler := usecase.NewSchedulerService(store, publisher, cfg.Schedule.PollInterval, cfg.Schedule.MaxPublishRetries)
	scheduler.Start()

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	go runCleanup(cleanupCtx, store, cfg.Schedule.CleanupAfterDays)

	app := fiber.New(fiber.Config{
		AppName:      "Curator " + cfg.App.Version,
		Network:      "tcp",
		ServerHeader: "Hidden",
	})
	app.Use(requestid.New())
	app.Use(middleware.Recovery())
	if cfg.App.Debug {
		app.Use(logger.New())
	}

	api := app.Group("/api")
	rest.InitRestHealth(api, store, scheduler)
	rest.InitRestPosts(api, store, rewriter, slots, cfg.Telegram.AdminID, time.Now)
	rest.InitRestQueue(api, store, slots, publisher, cfg.Schedule.DistributeLeadTime, time.Now)

	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			logrus.Fatalf("ops API server failed: %v", err)
		}
	}()
	logrus.Infof("ops API listening on :%s", cfg.App.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down...")
	cancelCleanup()
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Error("ops API shutdown failed")
	}
	scheduler.Stop()
}

func loadCalendar(cfg *config.Config) *calendar.Weekly {
	if cfg.Schedule.File == "" {
		return calendar.Default()
	}

	cal, err := calendar.LoadFile(cfg.Schedule.File)
	if err != nil {
		logrus.Fatalf("failed to load posting calendar: %v", err)
	}
	if cal.IsEmpty() {
		logrus.Fatalf("posting calendar %s has no windows, nothing could ever be published", cfg.Schedule.File)
	}
	return cal
}

// runCleanup drops aged pending posts and finalized scheduled posts once a
// day so the in-memory pools do not grow without bound.
func runCleanup(ctx context.Context, store domainPost.IPostStore, afterDays int) {
	if afterDays <= 0 {
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.CleanupOld(time.Now().AddDate(0, 0, -afterDays))
		}
	}
}
