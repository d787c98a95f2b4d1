package rest

import (
	"github.com/curatorbot/curator/core/config"
	domainPost "github.com/curatorbot/curator/domains/post"
	"github.com/curatorbot/curator/usecase"
	"github.com/gofiber/fiber/v2"
)

type Health struct {
	Store     domainPost.IPostStore
	Scheduler *usecase.SchedulerService
}

func InitRestHealth(app fiber.Router, store domainPost.IPostStore, scheduler *usecase.SchedulerService) Health {
	handler := Health{Store: store, Scheduler: scheduler}

	group := app.Group("/health")
	group.Get("/status", handler.GetStatus)

	return handler
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	return respondOK(c, "Status retrieved", fiber.Map{
		"version":           config.Global.App.Version,
		"scheduler_running": h.Scheduler.IsRunning(),
		"stats":             h.Store.Stats(),
	})
}
