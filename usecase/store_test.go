package usecase

import (
	"testing"
	"time"

	domainPost "github.com/curatorbot/curator/domains/post"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textContent(text string) domainPost.Content {
	return domainPost.Content{Text: text}
}

func TestPostStore_PendingIDsNeverReused(t *testing.T) {
	store := NewPostStore()

	first := store.AddPending(textContent("one"), 42)
	second := store.AddPending(textContent("two"), 42)
	require.Greater(t, second, first)

	require.True(t, store.RemovePending(second))
	third := store.AddPending(textContent("three"), 42)
	assert.Greater(t, third, second, "removal must not free an id for reuse")
}

func TestPostStore_PoolsCountIndependently(t *testing.T) {
	store := NewPostStore()

	pendingID := store.AddPending(textContent("pending"), 1)
	scheduledID := store.Schedule(textContent("scheduled"), time.Now().Add(time.Hour), 1)

	// Both pools start at 1; the counters do not share state.
	assert.Equal(t, 1, pendingID)
	assert.Equal(t, 1, scheduledID)

	_, okPending := store.GetPending(pendingID)
	_, okScheduled := store.GetScheduled(scheduledID)
	assert.True(t, okPending)
	assert.True(t, okScheduled)
}

func TestPostStore_UpdatePendingAndEditFlow(t *testing.T) {
	store := NewPostStore()
	id := store.AddPending(textContent("draft"), 42)

	awaiting := true
	require.True(t, store.UpdatePending(id, domainPost.PendingUpdate{AwaitingEdit: &awaiting}))

	found, ok := store.FindAwaitingEditBy(42)
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = store.FindAwaitingEditBy(99)
	assert.False(t, ok, "other requesters have nothing awaiting edit")

	newText := "revised draft"
	notAwaiting := false
	require.True(t, store.UpdatePending(id, domainPost.PendingUpdate{Text: &newText, AwaitingEdit: &notAwaiting}))

	p, ok := store.GetPending(id)
	require.True(t, ok)
	assert.Equal(t, "revised draft", p.Content.Text)
	assert.Equal(t, domainPost.StatusPendingApproval, p.Status)

	_, ok = store.FindAwaitingEditBy(42)
	assert.False(t, ok)
}

func TestPostStore_UpdatePendingUnknownID(t *testing.T) {
	store := NewPostStore()
	text := "whatever"
	assert.False(t, store.UpdatePending(123, domainPost.PendingUpdate{Text: &text}))
}

func TestPostStore_ReturnedPostsAreCopies(t *testing.T) {
	store := NewPostStore()
	id := store.AddPending(textContent("immutable"), 1)

	p, ok := store.GetPending(id)
	require.True(t, ok)
	p.Content.Text = "mutated"

	fresh, _ := store.GetPending(id)
	assert.Equal(t, "immutable", fresh.Content.Text)
}

func TestPostStore_DueForPublicationBoundary(t *testing.T) {
	store := NewPostStore()
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.Local)

	early := store.Schedule(textContent("early"), now.Add(-time.Minute), 1)
	exact := store.Schedule(textContent("exact"), now, 1)
	store.Schedule(textContent("late"), now.Add(time.Minute), 1)

	due := store.DueForPublication(now)
	require.Len(t, due, 2, "a post scheduled exactly at now is due")
	assert.Equal(t, early, due[0].ID, "due posts come out in publish-time order")
	assert.Equal(t, exact, due[1].ID)
}

func TestPostStore_ListScheduledSortedAndLimited(t *testing.T) {
	store := NewPostStore()
	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.Local)

	// Inserted out of order on purpose.
	third := store.Schedule(textContent("c"), base.Add(3*time.Hour), 1)
	first := store.Schedule(textContent("a"), base.Add(1*time.Hour), 1)
	second := store.Schedule(textContent("b"), base.Add(2*time.Hour), 1)

	cancelled := store.Schedule(textContent("dropped"), base.Add(30*time.Minute), 1)
	require.True(t, store.Cancel(cancelled))

	all := store.ListScheduled(0)
	require.Len(t, all, 3, "cancelled posts do not appear in the queue listing")
	assert.Equal(t, []int{first, second, third}, []int{all[0].ID, all[1].ID, all[2].ID})

	limited := store.ListScheduled(2)
	require.Len(t, limited, 2)
	assert.Equal(t, first, limited[0].ID)
}

func TestPostStore_RescheduleResetsAttempts(t *testing.T) {
	store := NewPostStore()
	id := store.Schedule(textContent("retry me"), time.Now().Add(time.Hour), 1)

	attempts, ok := store.MarkFailedAttempt(id)
	require.True(t, ok)
	assert.Equal(t, 1, attempts)

	newTime := time.Now().Add(2 * time.Hour)
	require.True(t, store.Reschedule(id, newTime))

	p, _ := store.GetScheduled(id)
	assert.Equal(t, 0, p.Attempts)
	assert.True(t, p.PublishTime.Equal(newTime))
}

func TestPostStore_TerminalTransitionsRejected(t *testing.T) {
	store := NewPostStore()

	published := store.Schedule(textContent("done"), time.Now(), 1)
	require.True(t, store.MarkPublished(published))
	assert.False(t, store.MarkPublished(published), "publishing twice must fail")
	assert.False(t, store.Cancel(published), "a published post cannot be cancelled")
	assert.False(t, store.Reschedule(published, time.Now().Add(time.Hour)))
	_, ok := store.MarkFailedAttempt(published)
	assert.False(t, ok)

	cancelled := store.Schedule(textContent("gone"), time.Now(), 1)
	require.True(t, store.Cancel(cancelled))
	assert.False(t, store.Cancel(cancelled))
	assert.False(t, store.MarkPublished(cancelled))
}

func TestPostStore_Stats(t *testing.T) {
	store := NewPostStore()

	store.AddPending(textContent("p1"), 1)
	store.AddPending(textContent("p2"), 1)

	s1 := store.Schedule(textContent("s1"), time.Now().Add(time.Hour), 1)
	store.Schedule(textContent("s2"), time.Now().Add(time.Hour), 1)
	require.True(t, store.MarkPublished(s1))

	stats := store.Stats()
	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, 1, stats.ScheduledCount)
	assert.Equal(t, 1, stats.PublishedCount)
	assert.Equal(t, 4, stats.TotalEverProcessed)
}

func TestPostStore_CleanupOld(t *testing.T) {
	store := NewPostStore()

	store.AddPending(textContent("stale pending"), 1)
	active := store.Schedule(textContent("still live"), time.Now().Add(time.Hour), 1)
	finished := store.Schedule(textContent("published"), time.Now(), 1)
	require.True(t, store.MarkPublished(finished))

	// Everything above was created "before" a cutoff in the future.
	removedPending, removedScheduled := store.CleanupOld(time.Now().Add(time.Minute))
	assert.Equal(t, 1, removedPending)
	assert.Equal(t, 1, removedScheduled, "only terminal scheduled posts are swept")

	_, ok := store.GetScheduled(active)
	assert.True(t, ok, "active scheduled posts survive cleanup regardless of age")

	removedPending, removedScheduled = store.CleanupOld(time.Now().Add(time.Minute))
	assert.Zero(t, removedPending)
	assert.Zero(t, removedScheduled)
}
