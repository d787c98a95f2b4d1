package post

import "time"

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusAwaitingEdit    Status = "awaiting_edit"
	StatusScheduled       Status = "scheduled"
	StatusPublished       Status = "published"
	StatusCancelled       Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusCancelled
}

type MediaType string

const (
	MediaPhoto     MediaType = "photo"
	MediaVideo     MediaType = "video"
	MediaDocument  MediaType = "document"
	MediaAnimation MediaType = "animation"
	MediaVoice     MediaType = "voice"
)

// MessageRef points at an original message on the chat platform. The core
// never follows the reference itself; the publisher needs it to re-send
// the attached media.
type MessageRef struct {
	ChatID    int64     `json:"chat_id"`
	MessageID int       `json:"message_id"`
	MediaType MediaType `json:"media_type,omitempty"`
	FileID    string    `json:"file_id,omitempty"`
}

// Content is the opaque payload of a post: the rewritten text plus zero or
// one source reference (Source for a single message, Album for an ordered
// media group; at most one of the two is set).
type Content struct {
	Text   string       `json:"text"`
	Source *MessageRef  `json:"source,omitempty"`
	Album  []MessageRef `json:"album,omitempty"`
}

// Post is one entry in either the pending or the scheduled pool. IDs are
// allocated per pool, so a pending id and a scheduled id may collide
// numerically and must never be compared across pools.
type Post struct {
	ID          int       `json:"id"`
	Content     Content   `json:"content"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
	PublishTime time.Time `json:"publish_time,omitempty"` // zero until scheduled
	Status      Status    `json:"status"`
	Attempts    int       `json:"attempts,omitempty"` // consecutive failed publications
}

// PendingUpdate carries the fields of a pending post that may change after
// creation. Nil fields are left untouched.
type PendingUpdate struct {
	Text         *string
	AwaitingEdit *bool
}

type Stats struct {
	PendingCount       int `json:"pending_count"`
	ScheduledCount     int `json:"scheduled_count"`
	PublishedCount     int `json:"published_count"`
	TotalEverProcessed int `json:"total_ever_processed"`
}

// IPostStore is the authoritative registry of posts. Implementations must
// be safe for concurrent use: the scheduler loop and the request handlers
// mutate the pools from independent goroutines. Callers receive copies,
// never references into the store.
type IPostStore interface {
	AddPending(content Content, requesterID int64) int
	GetPending(id int) (Post, bool)
	UpdatePending(id int, update PendingUpdate) bool
	RemovePending(id int) bool
	FindAwaitingEditBy(requesterID int64) (int, bool)

	Schedule(content Content, publishTime time.Time, requesterID int64) int
	GetScheduled(id int) (Post, bool)
	ListScheduled(limit int) []Post
	DueForPublication(now time.Time) []Post
	Reschedule(id int, newTime time.Time) bool
	Cancel(id int) bool
	MarkPublished(id int) bool
	MarkFailedAttempt(id int) (int, bool)

	Stats() Stats
	CleanupOld(olderThan time.Time) (int, int)
}
