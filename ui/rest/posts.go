package rest

import (
	domainPost "github.com/curatorbot/curator/domains/post"
	domainRewrite "github.com/curatorbot/curator/domains/rewrite"
	domainSchedule "github.com/curatorbot/curator/domains/schedule"
	pkgError "github.com/curatorbot/curator/pkg/error"
	"github.com/curatorbot/curator/pkg/linkextract"
	"github.com/curatorbot/curator/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Posts serves the pending pool: submission for rewriting, preview,
// approval into the schedule, the edit round-trip, and deletion.
type Posts struct {
	Store    domainPost.IPostStore
	Rewriter domainRewrite.IRewriteUsecase
	Slots    domainSchedule.ISlotUsecase
	AdminID  int64
	Now      NowFunc
}

func InitRestPosts(app fiber.Router, store domainPost.IPostStore, rewriter domainRewrite.IRewriteUsecase, slots domainSchedule.ISlotUsecase, adminID int64, now NowFunc) Posts {
	handler := Posts{Store: store, Rewriter: rewriter, Slots: slots, AdminID: adminID, Now: now}

	group := app.Group("/posts")
	group.Post("/", handler.Create)
	group.Get("/:id", handler.Get)
	group.Post("/:id/approve", handler.Approve)
	group.Post("/:id/edit", handler.RequestEdit)
	group.Post("/edit-message", handler.ApplyEdit)
	group.Delete("/:id", handler.Delete)

	return handler
}

// Create rewrites submitted text and parks the result in the pending pool
// for approval.
func (h *Posts) Create(c *fiber.Ctx) error {
	var request domainPost.CreateRequest
	if err := c.BodyParser(&request); err != nil {
		return respondError(c, pkgError.ValidationError("malformed request body"))
	}
	if request.Text == "" {
		return respondError(c, pkgError.ValidationError("text: cannot be blank."))
	}

	requesterID := request.RequesterID
	if requesterID == 0 {
		requesterID = h.AdminID
	}

	prompt := domainRewrite.PromptKind(request.Prompt)
	if prompt == "" {
		prompt = domainRewrite.PromptStyleFormatting
	}

	extracted := linkextract.FromText(request.Text)
	rewritten, err := h.Rewriter.Rewrite(c.UserContext(), domainRewrite.Request{
		Text:     request.Text,
		Links:    extracted.URLs,
		Mentions: extracted.Mentions,
		Prompt:   prompt,
	})
	if err != nil {
		// The rewriter returned a fallback text; surface it but flag the
		// degradation so the admin reviews it more carefully.
		logrus.WithError(err).Warn("[REST] rewrite degraded to fallback")
	}

	id := h.Store.AddPending(domainPost.Content{Text: rewritten}, requesterID)
	p, _ := h.Store.GetPending(id)
	return respondOK(c, "Post created and awaiting approval", p)
}

func (h *Posts) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, pkgError.ValidationError("id must be an integer"))
	}

	p, ok := h.Store.GetPending(id)
	if !ok {
		return respondError(c, pkgError.NotFoundError("pending post not found"))
	}
	return respondOK(c, "Pending post retrieved", p)
}

// Approve resolves a publish time (explicit, quick option, or next free
// slot) and moves the post from the pending to the scheduled pool.
func (h *Posts) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, pkgError.ValidationError("id must be an integer"))
	}

	var request domainPost.ApproveRequest
	if err := c.BodyParser(&request); err != nil {
		return respondError(c, pkgError.ValidationError("malformed request body"))
	}

	p, ok := h.Store.GetPending(id)
	if !ok {
		return respondError(c, pkgError.NotFoundError("pending post not found"))
	}

	now := h.Now()
	var publishTime = now
	switch {
	case request.PublishTime != "":
		publishTime, err = h.Slots.ParseUserTime(request.PublishTime, now)
	case request.QuickOption != "":
		publishTime, err = h.Slots.QuickSchedule(domainSchedule.QuickOption(request.QuickOption), now)
	default:
		publishTime, err = h.Slots.NextAllowed(now)
	}
	if err != nil {
		return respondError(c, err)
	}

	scheduledID := h.Store.Schedule(p.Content, publishTime, p.RequesterID)
	h.Store.RemovePending(id)

	scheduled, _ := h.Store.GetScheduled(scheduledID)
	return respondOK(c, "Post scheduled", scheduled)
}

// RequestEdit marks a pending post as awaiting additional material.
func (h *Posts) RequestEdit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, pkgError.ValidationError("id must be an integer"))
	}

	awaiting := true
	if !h.Store.UpdatePending(id, domainPost.PendingUpdate{AwaitingEdit: &awaiting}) {
		return respondError(c, pkgError.NotFoundError("pending post not found"))
	}
	return respondOK(c, "Post is awaiting additional material", fiber.Map{"id": id})
}

// ApplyEdit finds the requester's awaiting-edit post and reworks it with
// the supplied addition through the post-improvement prompt.
func (h *Posts) ApplyEdit(c *fiber.Ctx) error {
	var request domainPost.EditMessageRequest
	if err := c.BodyParser(&request); err != nil {
		return respondError(c, pkgError.ValidationError("malformed request body"))
	}
	if request.Addition == "" {
		return respondError(c, pkgError.ValidationError("addition: cannot be blank."))
	}
	if request.RequesterID == 0 {
		request.RequesterID = h.AdminID
	}

	id, ok := h.Store.FindAwaitingEditBy(request.RequesterID)
	if !ok {
		return respondError(c, pkgError.NotFoundError("no post awaiting edit for this requester"))
	}
	p, _ := h.Store.GetPending(id)

	extracted := linkextract.FromText(request.Addition)
	rewritten, err := h.Rewriter.Rewrite(c.UserContext(), domainRewrite.Request{
		Text:     p.Content.Text,
		Links:    extracted.URLs,
		Mentions: extracted.Mentions,
		Prompt:   domainRewrite.PromptPostImprovement,
		Addition: request.Addition,
	})
	if err != nil {
		logrus.WithError(err).Warn("[REST] improvement rewrite degraded to fallback")
	}

	awaiting := false
	h.Store.UpdatePending(id, domainPost.PendingUpdate{Text: &rewritten, AwaitingEdit: &awaiting})

	updated, _ := h.Store.GetPending(id)
	return respondOK(c, "Post updated with additional material", updated)
}

func (h *Posts) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, pkgError.ValidationError("id must be an integer"))
	}

	if !h.Store.RemovePending(id) {
		return respondError(c, pkgError.NotFoundError("pending post not found"))
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Pending post deleted",
	})
}
