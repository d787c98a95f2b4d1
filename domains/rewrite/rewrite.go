package rewrite

import "context"

// PromptKind selects which prompt variant drives the rewrite.
type PromptKind string

const (
	PromptStyleFormatting PromptKind = "style_formatting"
	PromptGroupProcessing PromptKind = "group_processing"
	PromptPostImprovement PromptKind = "post_improvement"
)

type Request struct {
	Text     string
	Links    []string
	Mentions []string
	Prompt   PromptKind

	// Addition carries extra user input for the post-improvement prompt.
	Addition string
}

// IRewriteUsecase turns raw forwarded text into publishable copy. On API
// failure implementations return a human-readable fallback string and a
// non-nil error, never an empty result.
type IRewriteUsecase interface {
	Rewrite(ctx context.Context, req Request) (string, error)
}
