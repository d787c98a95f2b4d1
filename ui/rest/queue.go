package rest

import (
	"context"
	"time"

	domainPost "github.com/curatorbot/curator/domains/post"
	domainSchedule "github.com/curatorbot/curator/domains/schedule"
	pkgError "github.com/curatorbot/curator/pkg/error"
	"github.com/curatorbot/curator/pkg/timeutils"
	"github.com/curatorbot/curator/validations"
	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
)

// NowFunc supplies the current naive-local time; injected so handler tests
// can pin the clock.
type NowFunc func() time.Time

// ImmediatePublisher is the publish-now path with its own bounded retry,
// as opposed to the scheduler's retry-across-scans.
type ImmediatePublisher interface {
	PublishWithRetry(ctx context.Context, p domainPost.Post) error
}

// Queue serves the scheduled pool: listing, cancellation, rescheduling,
// immediate publication and slot distribution previews.
type Queue struct {
	Store     domainPost.IPostStore
	Slots     domainSchedule.ISlotUsecase
	Publisher ImmediatePublisher
	LeadTime  time.Duration
	Now       NowFunc
}

func InitRestQueue(app fiber.Router, store domainPost.IPostStore, slots domainSchedule.ISlotUsecase, publisher ImmediatePublisher, leadTime time.Duration, now NowFunc) Queue {
	handler := Queue{Store: store, Slots: slots, Publisher: publisher, LeadTime: leadTime, Now: now}

	group := app.Group("/queue")
	group.Get("/", handler.List)
	group.Post("/distribute", handler.Distribute)
	group.Post("/:id/cancel", handler.Cancel)
	group.Post("/:id/reschedule", handler.Reschedule)
	group.Post("/:id/publish-now", handler.PublishNow)

	return handler
}

type queueItem struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	PublishTime string `json:"publish_time"`
	PublishIn   string `json:"publish_in"`
}

func (h *Queue) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	posts := h.Store.ListScheduled(limit)

	items := make([]queueItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, queueItem{
			ID:          p.ID,
			Text:        p.Content.Text,
			PublishTime: timeutils.FormatForUser(p.PublishTime),
			PublishIn:   humanize.Time(p.PublishTime),
		})
	}
	return respondOK(c, "Scheduled queue retrieved", items)
}

// Distribute previews evenly spread publish times for a batch of posts;
// it assigns nothing, the admin confirms per post.
func (h *Queue) Distribute(c *fiber.Ctx) error {
	var request domainSchedule.DistributeRequest
	if err := c.BodyParser(&request); err != nil {
		return respondError(c, pkgError.ValidationError("malformed request body"))
	}
	if request.HorizonDays == 0 {
		request.HorizonDays = 7
	}
	if err := validations.ValidateDistribute(c.UserContext(), request); err != nil {
		return respondError(c, err)
	}

	request.StartFrom = h.Now().Add(h.LeadTime)
	times, err := h.Slots.Distribute(request)
	if err != nil {
		return respondError(c, err)
	}

	formatted := make([]string, 0, len(times))
	for _, t := range times {
		formatted = append(formatted, timeutils.FormatForUser(t))
	}
	return respondOK(c, "Distribution preview", formatted)
}

func (h *Queue) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, pkgError.ValidationError("id must be an integer"))
	}

	if !h.Store.Cancel(id) {
		return respondError(c, pkgError.NotFoundError("scheduled post not found or already finalized"))
	}
	return respondOK(c, "Publication cancelled", fiber.Map{"id": id})
}

func (h *Queue) Reschedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, pkgError.ValidationError("id must be an integer"))
	}

	var request domainSchedule.RescheduleRequest
	if err := c.BodyParser(&request); err != nil {
		return respondError(c, pkgError.ValidationError("malformed request body"))
	}
	request.PostID = id
	if err := validations.ValidateReschedule(c.UserContext(), request); err != nil {
		return respondError(c, err)
	}

	newTime, err := h.Slots.ParseUserTime(request.NewTime, h.Now())
	if err != nil {
		return respondError(c, err)
	}

	if !h.Store.Reschedule(id, newTime) {
		return respondError(c, pkgError.NotFoundError("scheduled post not found or already finalized"))
	}
	return respondOK(c, "Post rescheduled", fiber.Map{
		"id":           id,
		"publish_time": timeutils.FormatForUser(newTime),
	})
}

// PublishNow pushes a scheduled post out immediately, with the bounded
// retry of the immediate path rather than waiting for the loop.
func (h *Queue) PublishNow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, pkgError.ValidationError("id must be an integer"))
	}

	p, ok := h.Store.GetScheduled(id)
	if !ok || p.Status != domainPost.StatusScheduled {
		return respondError(c, pkgError.NotFoundError("scheduled post not found or already finalized"))
	}

	if err := h.Publisher.PublishWithRetry(c.UserContext(), p); err != nil {
		return respondError(c, pkgError.PublishError(err.Error()))
	}

	h.Store.MarkPublished(id)
	return respondOK(c, "Post published", fiber.Map{"id": id})
}
