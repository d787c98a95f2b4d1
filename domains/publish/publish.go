package publish

import (
	"context"

	"github.com/curatorbot/curator/domains/post"
)

// IPublisher delivers a post to the target group. Implementations must be
// retry-safe: the scheduler re-invokes Publish on the next scan after a
// failure, and the immediate-publish path retries with backoff. Failures
// are reported as errors, never panics.
type IPublisher interface {
	Publish(ctx context.Context, p post.Post) error
}
