package post

// CreateRequest submits raw forwarded text for rewriting into a pending
// post.
type CreateRequest struct {
	Text        string `json:"text"`
	Prompt      string `json:"prompt,omitempty"` // rewrite prompt kind, defaults to style formatting
	RequesterID int64  `json:"requester_id,omitempty"`
}

// ApproveRequest moves a pending post into the scheduled pool. Exactly one
// of PublishTime (user date format) or QuickOption is expected; with
// neither set the post is scheduled into the next available slot.
type ApproveRequest struct {
	PublishTime string `json:"publish_time,omitempty"`
	QuickOption string `json:"quick_option,omitempty"`
}

// EditMessageRequest carries the admin's follow-up material for the post
// they previously marked as awaiting edit.
type EditMessageRequest struct {
	RequesterID int64  `json:"requester_id"`
	Addition    string `json:"addition"`
}
