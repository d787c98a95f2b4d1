package usecase

import (
	"sort"
	"sync"
	"time"

	domainPost "github.com/curatorbot/curator/domains/post"
	"github.com/sirupsen/logrus"
)

// postStore is the in-memory registry of posts. The pending and scheduled
// pools are independent: separate maps, separate mutexes, separate id
// counters. Ids grow monotonically and are never reused, even after
// removal. Every method hands out copies, so callers can never mutate the
// store through a returned Post.
type postStore struct {
	pendingMu      sync.RWMutex
	pending        map[int]domainPost.Post
	pendingCounter int

	scheduledMu      sync.RWMutex
	scheduled        map[int]domainPost.Post
	scheduledCounter int
}

// NewPostStore creates an empty store.
func NewPostStore() domainPost.IPostStore {
	return &postStore{
		pending:   make(map[int]domainPost.Post),
		scheduled: make(map[int]domainPost.Post),
	}
}

func (s *postStore) AddPending(content domainPost.Content, requesterID int64) int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	s.pendingCounter++
	id := s.pendingCounter
	s.pending[id] = domainPost.Post{
		ID:          id,
		Content:     content,
		RequesterID: requesterID,
		CreatedAt:   time.Now(),
		Status:      domainPost.StatusPendingApproval,
	}

	logrus.Infof("[STORE] added pending post #%d from requester %d", id, requesterID)
	return id
}

func (s *postStore) GetPending(id int) (domainPost.Post, bool) {
	s.pendingMu.RLock()
	defer s.pendingMu.RUnlock()

	p, ok := s.pending[id]
	return p, ok
}

func (s *postStore) UpdatePending(id int, update domainPost.PendingUpdate) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	p, ok := s.pending[id]
	if !ok {
		return false
	}
	if update.Text != nil {
		p.Content.Text = *update.Text
	}
	if update.AwaitingEdit != nil {
		if *update.AwaitingEdit {
			p.Status = domainPost.StatusAwaitingEdit
		} else {
			p.Status = domainPost.StatusPendingApproval
		}
	}
	s.pending[id] = p
	return true
}

func (s *postStore) RemovePending(id int) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	logrus.Infof("[STORE] removed pending post #%d", id)
	return true
}

func (s *postStore) FindAwaitingEditBy(requesterID int64) (int, bool) {
	s.pendingMu.RLock()
	defer s.pendingMu.RUnlock()

	for id, p := range s.pending {
		if p.RequesterID == requesterID && p.Status == domainPost.StatusAwaitingEdit {
			return id, true
		}
	}
	return 0, false
}

func (s *postStore) Schedule(content domainPost.Content, publishTime time.Time, requesterID int64) int {
	s.scheduledMu.Lock()
	defer s.scheduledMu.Unlock()

	s.scheduledCounter++
	id := s.scheduledCounter
	s.scheduled[id] = domainPost.Post{
		ID:          id,
		Content:     content,
		RequesterID: requesterID,
		CreatedAt:   time.Now(),
		PublishTime: publishTime,
		Status:      domainPost.StatusScheduled,
	}

	logrus.Infof("[STORE] scheduled post #%d for %s", id, publishTime.Format("02.01.2006 15:04"))
	return id
}

func (s *postStore) GetScheduled(id int) (domainPost.Post, bool) {
	s.scheduledMu.RLock()
	defer s.scheduledMu.RUnlock()

	p, ok := s.scheduled[id]
	return p, ok
}

func (s *postStore) ListScheduled(limit int) []domainPost.Post {
	s.scheduledMu.RLock()
	defer s.scheduledMu.RUnlock()

	out := make([]domainPost.Post, 0, len(s.scheduled))
	for _, p := range s.scheduled {
		if p.Status == domainPost.StatusScheduled {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishTime.Before(out[j].PublishTime)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *postStore) DueForPublication(now time.Time) []domainPost.Post {
	s.scheduledMu.RLock()
	defer s.scheduledMu.RUnlock()

	var due []domainPost.Post
	for _, p := range s.scheduled {
		if p.Status == domainPost.StatusScheduled && !p.PublishTime.After(now) {
			due = append(due, p)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].PublishTime.Before(due[j].PublishTime)
	})
	return due
}

func (s *postStore) Reschedule(id int, newTime time.Time) bool {
	s.scheduledMu.Lock()
	defer s.scheduledMu.Unlock()

	p, ok := s.scheduled[id]
	if !ok || p.Status != domainPost.StatusScheduled {
		return false
	}
	p.PublishTime = newTime
	p.Attempts = 0
	s.scheduled[id] = p

	logrus.Infof("[STORE] rescheduled post #%d to %s", id, newTime.Format("02.01.2006 15:04"))
	return true
}

func (s *postStore) Cancel(id int) bool {
	s.scheduledMu.Lock()
	defer s.scheduledMu.Unlock()

	p, ok := s.scheduled[id]
	if !ok || p.Status.Terminal() {
		return false
	}
	p.Status = domainPost.StatusCancelled
	s.scheduled[id] = p

	logrus.Infof("[STORE] cancelled post #%d", id)
	return true
}

func (s *postStore) MarkPublished(id int) bool {
	s.scheduledMu.Lock()
	defer s.scheduledMu.Unlock()

	p, ok := s.scheduled[id]
	if !ok || p.Status != domainPost.StatusScheduled {
		return false
	}
	p.Status = domainPost.StatusPublished
	s.scheduled[id] = p

	logrus.Infof("[STORE] marked post #%d as published", id)
	return true
}

func (s *postStore) MarkFailedAttempt(id int) (int, bool) {
	s.scheduledMu.Lock()
	defer s.scheduledMu.Unlock()

	p, ok := s.scheduled[id]
	if !ok || p.Status != domainPost.StatusScheduled {
		return 0, false
	}
	p.Attempts++
	s.scheduled[id] = p
	return p.Attempts, true
}

func (s *postStore) Stats() domainPost.Stats {
	s.pendingMu.RLock()
	pendingCount := len(s.pending)
	s.pendingMu.RUnlock()

	s.scheduledMu.RLock()
	defer s.scheduledMu.RUnlock()

	scheduledCount := 0
	publishedCount := 0
	for _, p := range s.scheduled {
		switch p.Status {
		case domainPost.StatusScheduled:
			scheduledCount++
		case domainPost.StatusPublished:
			publishedCount++
		}
	}

	return domainPost.Stats{
		PendingCount:       pendingCount,
		ScheduledCount:     scheduledCount,
		PublishedCount:     publishedCount,
		TotalEverProcessed: pendingCount + len(s.scheduled),
	}
}

// CleanupOld drops pending posts created before olderThan and scheduled
// posts that reached a terminal status before olderThan. Active scheduled
// posts are never touched, however old.
func (s *postStore) CleanupOld(olderThan time.Time) (int, int) {
	s.pendingMu.Lock()
	removedPending := 0
	for id, p := range s.pending {
		if p.CreatedAt.Before(olderThan) {
			delete(s.pending, id)
			removedPending++
		}
	}
	s.pendingMu.Unlock()

	s.scheduledMu.Lock()
	removedScheduled := 0
	for id, p := range s.scheduled {
		if p.Status.Terminal() && p.CreatedAt.Before(olderThan) {
			delete(s.scheduled, id)
			removedScheduled++
		}
	}
	s.scheduledMu.Unlock()

	if removedPending > 0 || removedScheduled > 0 {
		logrus.Infof("[STORE] cleanup removed %d pending and %d scheduled posts", removedPending, removedScheduled)
	}
	return removedPending, removedScheduled
}
