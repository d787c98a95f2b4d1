package rest

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/curatorbot/curator/core/config"
	domainPost "github.com/curatorbot/curator/domains/post"
	"github.com/curatorbot/curator/usecase"
	"github.com/gofiber/fiber/v2"
)

func TestHealthStatus(t *testing.T) {
	prev := config.Global
	config.Global = &config.Config{App: config.AppConfig{Version: "v-test"}}
	t.Cleanup(func() { config.Global = prev })

	app := fiber.New()
	store := usecase.NewPostStore()
	store.Schedule(domainPost.Content{Text: "queued"}, time.Now().Add(time.Hour), 1)

	scheduler := usecase.NewSchedulerService(store, nil, time.Hour, 3)
	InitRestHealth(app, store, scheduler)

	status, env := doJSON(t, app, http.MethodGet, "/health/status", nil)
	if status != http.StatusOK || env.Code != "SUCCESS" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}

	var results struct {
		Version          string `json:"version"`
		SchedulerRunning bool   `json:"scheduler_running"`
		Stats            struct {
			ScheduledCount int `json:"scheduled_count"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(env.Results, &results); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	if results.Version != "v-test" {
		t.Fatalf("expected version v-test, got %q", results.Version)
	}
	if results.SchedulerRunning {
		t.Fatalf("scheduler should report stopped")
	}
	if results.Stats.ScheduledCount != 1 {
		t.Fatalf("expected 1 scheduled post in stats, got %d", results.Stats.ScheduledCount)
	}
}
