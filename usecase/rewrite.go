package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/curatorbot/curator/core/config"
	domainRewrite "github.com/curatorbot/curator/domains/rewrite"
	"github.com/curatorbot/curator/pkg/htmlutil"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

const rewriteFallbackNotice = "AI processing failed, publishing the original text.\n\n"

var defaultPrompts = map[domainRewrite.PromptKind]string{
	domainRewrite.PromptStyleFormatting: `You are an experienced copywriter and content editor.
Rework the submitted text, keeping its meaning while improving readability and structure.

IMPORTANT:
- Keep every link, formatted as HTML <a href="URL">text</a>
- Keep @username mentions exactly as they are
- Reply in plain text with HTML links only, WITHOUT <p>, <div>, <html> or other structural tags
- Use only the tags <a>, <b>, <i>, <u>, <s>, <code>, <pre>
- Preserve the meaning and tone of the source message`,

	domainRewrite.PromptGroupProcessing: `You are an experienced copywriter for a Telegram channel.
Prepare the text for publication in the group:

IMPORTANT:
- REMOVE all @username mentions and links to Telegram channels (t.me, telegram.me)
- Keep only external (non-Telegram) links as <a href="URL">text</a>
- Format for the group and improve readability
- Use only the tags <a>, <b>, <i>, <u>, <s>, <code>, <pre>`,

	domainRewrite.PromptPostImprovement: `You are an experienced copywriter and content editor.
You are given a main post and additional material to work into it.

Task: integrate the additional material into the main post, improving its structure and readability.

RULES:
- Keep every link, formatted as HTML <a href="URL">text</a>
- Keep @username mentions exactly as they are
- Use ONLY the tags <a>, <b>, <i>, <u>, <s>, <code>, <pre>
- Weave the addition in naturally, do not duplicate content`,
}

// rewriteService sends content through a chat-completions API (DeepSeek by
// default, anything OpenAI-compatible via AI_BASE_URL) and sanitizes the
// answer down to Telegram-safe HTML.
type rewriteService struct {
	cfg        config.AIConfig
	promptsDir string

	promptMu    sync.RWMutex
	promptCache map[domainRewrite.PromptKind]string
}

func NewRewriteService(cfg config.AIConfig, promptsDir string) domainRewrite.IRewriteUsecase {
	return &rewriteService{
		cfg:         cfg,
		promptsDir:  promptsDir,
		promptCache: make(map[domainRewrite.PromptKind]string),
	}
}

func (s *rewriteService) Rewrite(ctx context.Context, req domainRewrite.Request) (string, error) {
	prompt := s.loadPrompt(req.Prompt)

	client := openai.NewClient(
		option.WithAPIKey(s.cfg.APIKey),
		option.WithBaseURL(s.cfg.BaseURL),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	completion, err := client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(s.buildUserMessage(req)),
		},
		MaxTokens:   openai.Int(s.cfg.MaxTokens),
		Temperature: openai.Float(s.cfg.Temperature),
	})
	if err != nil {
		logrus.WithError(err).Error("[REWRITE] chat completion failed")
		return rewriteFallbackNotice + req.Text, err
	}
	if len(completion.Choices) == 0 {
		logrus.Error("[REWRITE] chat completion returned no choices")
		return rewriteFallbackNotice + req.Text, nil
	}

	cleaned := htmlutil.CleanForTelegram(completion.Choices[0].Message.Content)
	cleaned = htmlutil.Truncate(cleaned, htmlutil.MaxMessageLength)

	s.auditLinks(req.Links, cleaned)
	return cleaned, nil
}

// buildUserMessage assembles the model input: the raw text plus the
// extracted links and mentions the rewrite must preserve.
func (s *rewriteService) buildUserMessage(req domainRewrite.Request) string {
	var b strings.Builder
	b.WriteString(req.Text)

	if len(req.Links) > 0 {
		b.WriteString("\n\nLinks that must be preserved:\n")
		for _, link := range req.Links {
			b.WriteString("- " + link + "\n")
		}
	}
	if len(req.Mentions) > 0 {
		b.WriteString("\nMentions in the text: " + strings.Join(req.Mentions, ", "))
	}
	if req.Addition != "" {
		b.WriteString("\n\nAdditional material to integrate:\n" + req.Addition)
	}
	return b.String()
}

// auditLinks warns when the rewrite dropped a source link; the admin sees
// the preview and decides, the service never fails the rewrite over it.
func (s *rewriteService) auditLinks(sourceLinks []string, rewritten string) {
	if len(sourceLinks) == 0 {
		return
	}
	kept := htmlutil.ExtractAnchors(rewritten)
	for _, link := range sourceLinks {
		found := false
		for _, anchor := range kept {
			if anchor == link {
				found = true
				break
			}
		}
		if !found && strings.Contains(rewritten, link) {
			found = true // kept as bare text
		}
		if !found {
			logrus.Warnf("[REWRITE] source link dropped by the model: %s", link)
		}
	}
}

// loadPrompt returns the prompt text for a kind: the cached file override
// when one exists under the prompts directory, the built-in default
// otherwise.
func (s *rewriteService) loadPrompt(kind domainRewrite.PromptKind) string {
	s.promptMu.RLock()
	if cached, ok := s.promptCache[kind]; ok {
		s.promptMu.RUnlock()
		return cached
	}
	s.promptMu.RUnlock()

	prompt := defaultPrompts[kind]
	if prompt == "" {
		prompt = defaultPrompts[domainRewrite.PromptStyleFormatting]
	}

	path := filepath.Join(s.promptsDir, string(kind)+".txt")
	if raw, err := os.ReadFile(path); err == nil {
		if content := strings.TrimSpace(string(raw)); content != "" {
			prompt = content
			logrus.Infof("[REWRITE] loaded prompt %q from %s", kind, path)
		}
	}

	s.promptMu.Lock()
	s.promptCache[kind] = prompt
	s.promptMu.Unlock()
	return prompt
}
