package usecase

import (
	"context"
	"sync"
	"time"

	domainPost "github.com/curatorbot/curator/domains/post"
	domainPublish "github.com/curatorbot/curator/domains/publish"
	"github.com/sirupsen/logrus"
)

// SchedulerService is the background loop that fires publications when
// their time arrives. It has exactly two states, stopped and running;
// Start is idempotent and Stop blocks until the loop goroutine has exited,
// interrupting an in-progress sleep but never an in-flight publish call.
type SchedulerService struct {
	store        domainPost.IPostStore
	publisher    domainPublish.IPublisher
	pollInterval time.Duration

	// maxRetries caps consecutive failed publications per post; once hit
	// the post is cancelled instead of retrying forever against a dead
	// target. Zero means retry without limit.
	maxRetries int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSchedulerService(
	store domainPost.IPostStore,
	publisher domainPublish.IPublisher,
	pollInterval time.Duration,
	maxRetries int,
) *SchedulerService {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &SchedulerService{
		store:        store,
		publisher:    publisher,
		pollInterval: pollInterval,
		maxRetries:   maxRetries,
	}
}

// Start launches the loop goroutine. A second Start while running is
// logged and ignored.
func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		logrus.Warn("[SCHEDULER] already running, ignoring Start")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.runLoop(ctx, s.done)
	logrus.Infof("[SCHEDULER] started, poll interval %s", s.pollInterval)
}

// Stop cancels the loop and waits for it to finish. Safe to call when
// already stopped.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	logrus.Info("[SCHEDULER] stopped")
}

// IsRunning reports the loop state.
func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *SchedulerService) runLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		s.publishDue(ctx, time.Now())

		timer := time.NewTimer(s.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// publishDue runs one scan: every scheduled post whose time has passed is
// handed to the publisher in publish-time order. Success transitions the
// post to published; failure leaves it scheduled for the next scan unless
// the retry cap is reached.
func (s *SchedulerService) publishDue(ctx context.Context, now time.Time) int {
	due := s.store.DueForPublication(now)
	if len(due) == 0 {
		return 0
	}

	logrus.Infof("[SCHEDULER] found %d posts due for publication", len(due))

	published := 0
	for _, p := range due {
		if ctx.Err() != nil {
			return published
		}

		if err := s.publisher.Publish(ctx, p); err != nil {
			attempts, ok := s.store.MarkFailedAttempt(p.ID)
			logrus.WithError(err).Errorf("[SCHEDULER] publication of post #%d failed (attempt %d)", p.ID, attempts)
			if ok && s.maxRetries > 0 && attempts >= s.maxRetries {
				s.store.Cancel(p.ID)
				logrus.Errorf("[SCHEDULER] post #%d cancelled after %d failed attempts (dead letter)", p.ID, attempts)
			}
			continue
		}

		s.store.MarkPublished(p.ID)
		published++
		logrus.Infof("[SCHEDULER] post #%d published on schedule", p.ID)
	}
	return published
}
