package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	domainPost "github.com/curatorbot/curator/domains/post"
	domainRewrite "github.com/curatorbot/curator/domains/rewrite"
	"github.com/curatorbot/curator/usecase"
	"github.com/gofiber/fiber/v2"
)

const testAdminID int64 = 777

// fakeRewriter echoes the input with a marker instead of calling the model.
type fakeRewriter struct {
	lastRequest domainRewrite.Request
}

func (f *fakeRewriter) Rewrite(_ context.Context, req domainRewrite.Request) (string, error) {
	f.lastRequest = req
	return "rewritten: " + req.Text, nil
}

func newPostsApp(t *testing.T) (*fiber.App, domainPost.IPostStore, *fakeRewriter) {
	t.Helper()
	app := fiber.New()
	store := usecase.NewPostStore()
	rewriter := &fakeRewriter{}
	slots := usecase.NewSlotService(fridayCalendar(t))
	InitRestPosts(app, store, rewriter, slots, testAdminID, func() time.Time { return testFriday })
	return app, store, rewriter
}

func TestPostsCreate(t *testing.T) {
	app, store, rewriter := newPostsApp(t)

	body := []byte(`{"text":"check https://example.com and ping @someone_there"}`)
	status, env := doJSON(t, app, http.MethodPost, "/posts/", body)
	if status != http.StatusOK || env.Code != "SUCCESS" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}

	var created domainPost.Post
	if err := json.Unmarshal(env.Results, &created); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	if created.Status != domainPost.StatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", created.Status)
	}
	if created.RequesterID != testAdminID {
		t.Fatalf("expected admin as default requester, got %d", created.RequesterID)
	}

	// Extracted links and mentions travel to the rewriter.
	if len(rewriter.lastRequest.Links) != 1 || rewriter.lastRequest.Links[0] != "https://example.com" {
		t.Fatalf("expected extracted link, got %v", rewriter.lastRequest.Links)
	}
	if len(rewriter.lastRequest.Mentions) != 1 || rewriter.lastRequest.Mentions[0] != "@someone_there" {
		t.Fatalf("expected extracted mention, got %v", rewriter.lastRequest.Mentions)
	}

	p, ok := store.GetPending(created.ID)
	if !ok || p.Content.Text != "rewritten: check https://example.com and ping @someone_there" {
		t.Fatalf("pending post not stored as rewritten, got %+v", p)
	}
}

func TestPostsCreateRejectsBlankText(t *testing.T) {
	app, _, _ := newPostsApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/posts/", []byte(`{"text":""}`))
	if status != http.StatusBadRequest || env.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected 400 VALIDATION_ERROR, got %d %+v", status, env)
	}
}

func TestPostsApproveWithQuickOption(t *testing.T) {
	app, store, _ := newPostsApp(t)
	id := store.AddPending(domainPost.Content{Text: "approved text"}, testAdminID)

	status, env := doJSON(t, app, http.MethodPost, "/posts/1/approve",
		[]byte(`{"quick_option":"1_hour"}`))
	if status != http.StatusOK || env.Code != "SUCCESS" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}

	var scheduled domainPost.Post
	if err := json.Unmarshal(env.Results, &scheduled); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	if scheduled.Status != domainPost.StatusScheduled {
		t.Fatalf("expected scheduled status, got %s", scheduled.Status)
	}
	// testFriday is 10:30; an hour later is still inside the 10:00-12:00 window.
	want := time.Date(2025, 3, 14, 11, 30, 0, 0, time.Local)
	if !scheduled.PublishTime.Equal(want) {
		t.Fatalf("expected publish time %s, got %s", want, scheduled.PublishTime)
	}

	// Approval moves the post out of the pending pool.
	if _, ok := store.GetPending(id); ok {
		t.Fatalf("approved post must leave the pending pool")
	}
}

func TestPostsApproveDefaultsToNextSlot(t *testing.T) {
	app, store, _ := newPostsApp(t)
	store.AddPending(domainPost.Content{Text: "whenever"}, testAdminID)

	status, env := doJSON(t, app, http.MethodPost, "/posts/1/approve", []byte(`{}`))
	if status != http.StatusOK {
		t.Fatalf("unexpected response %d %+v", status, env)
	}

	var scheduled domainPost.Post
	if err := json.Unmarshal(env.Results, &scheduled); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	// 10:30 is already inside the Friday window, so it publishes right away.
	if !scheduled.PublishTime.Equal(testFriday) {
		t.Fatalf("expected %s, got %s", testFriday, scheduled.PublishTime)
	}
}

func TestPostsApproveUnknownID(t *testing.T) {
	app, _, _ := newPostsApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/posts/42/approve", []byte(`{}`))
	if status != http.StatusNotFound || env.Code != "NOT_FOUND_ERROR" {
		t.Fatalf("expected 404 NOT_FOUND_ERROR, got %d %+v", status, env)
	}
}

func TestPostsEditRoundTrip(t *testing.T) {
	app, store, rewriter := newPostsApp(t)
	id := store.AddPending(domainPost.Content{Text: "original draft"}, testAdminID)

	status, env := doJSON(t, app, http.MethodPost, "/posts/1/edit", nil)
	if status != http.StatusOK || env.Code != "SUCCESS" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}

	p, _ := store.GetPending(id)
	if p.Status != domainPost.StatusAwaitingEdit {
		t.Fatalf("expected awaiting_edit, got %s", p.Status)
	}

	status, env = doJSON(t, app, http.MethodPost, "/posts/edit-message",
		[]byte(`{"addition":"fresh material"}`))
	if status != http.StatusOK || env.Code != "SUCCESS" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}
	if rewriter.lastRequest.Prompt != domainRewrite.PromptPostImprovement {
		t.Fatalf("expected improvement prompt, got %s", rewriter.lastRequest.Prompt)
	}
	if rewriter.lastRequest.Addition != "fresh material" {
		t.Fatalf("expected addition to reach the rewriter, got %q", rewriter.lastRequest.Addition)
	}

	p, _ = store.GetPending(id)
	if p.Status != domainPost.StatusPendingApproval {
		t.Fatalf("expected pending_approval after the edit, got %s", p.Status)
	}
	if p.Content.Text != "rewritten: original draft" {
		t.Fatalf("unexpected updated text %q", p.Content.Text)
	}
}

func TestPostsEditMessageWithoutPending(t *testing.T) {
	app, _, _ := newPostsApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/posts/edit-message",
		[]byte(`{"addition":"orphan material"}`))
	if status != http.StatusNotFound || env.Code != "NOT_FOUND_ERROR" {
		t.Fatalf("expected 404 NOT_FOUND_ERROR, got %d %+v", status, env)
	}
}

func TestPostsDelete(t *testing.T) {
	app, store, _ := newPostsApp(t)
	id := store.AddPending(domainPost.Content{Text: "never mind"}, testAdminID)

	status, env := doJSON(t, app, http.MethodDelete, "/posts/1", nil)
	if status != http.StatusOK || env.Code != "SUCCESS" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}
	if _, ok := store.GetPending(id); ok {
		t.Fatalf("deleted post still present")
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/posts/1", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
}
