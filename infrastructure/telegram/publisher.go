package telegram

import (
	"context"
	"fmt"
	"time"

	domainPost "github.com/curatorbot/curator/domains/post"
	"github.com/curatorbot/curator/pkg/htmlutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Publisher delivers posts to the configured Telegram group. One attempt
// per Publish call; the scheduler loop supplies retries across scans and
// PublishWithRetry supplies them for immediate publication.
type Publisher struct {
	bot     *tgbotapi.BotAPI
	groupID int64

	maxRetries int
	retryDelay time.Duration
}

func NewPublisher(token string, groupID int64) (*Publisher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	logrus.Infof("[PUBLISHER] authorized as @%s", bot.Self.UserName)

	return &Publisher{
		bot:        bot,
		groupID:    groupID,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// Publish sends the post to the group. Album posts reuse the original
// message media by file id: the first item carries the caption, the rest
// follow bare, matching how the bot previews albums to the admin.
func (p *Publisher) Publish(ctx context.Context, post domainPost.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attemptID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"post_id": post.ID, "attempt_id": attemptID})
	log.Infof("[PUBLISHER] publishing post #%d to group %d", post.ID, p.groupID)

	switch {
	case len(post.Content.Album) > 0:
		return p.publishAlbum(post.Content, log)
	case post.Content.Source != nil && post.Content.Source.MediaType != "":
		return p.publishMedia(*post.Content.Source, post.Content.Text, log)
	default:
		return p.publishText(post.Content.Text, log)
	}
}

// PublishWithRetry is the immediate-publish path: up to maxRetries
// attempts with exponential backoff, aborted early on context cancel.
func (p *Publisher) PublishWithRetry(ctx context.Context, post domainPost.Post) error {
	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if attempt > 0 {
			delay := p.retryDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			logrus.Infof("[PUBLISHER] retrying post #%d, attempt %d", post.ID, attempt+1)
		}

		if lastErr = p.Publish(ctx, post); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("publish post #%d failed after %d attempts: %w", post.ID, p.maxRetries, lastErr)
}

func (p *Publisher) publishText(text string, log *logrus.Entry) error {
	if text == "" {
		log.Warn("[PUBLISHER] empty text post, nothing to send")
		return nil
	}

	msg := tgbotapi.NewMessage(p.groupID, htmlutil.Truncate(text, htmlutil.MaxMessageLength))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := p.bot.Send(msg); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

func (p *Publisher) publishMedia(ref domainPost.MessageRef, caption string, log *logrus.Entry) error {
	caption = htmlutil.Truncate(caption, htmlutil.MaxCaptionLength)
	file := tgbotapi.FileID(ref.FileID)

	var msg tgbotapi.Chattable
	switch ref.MediaType {
	case domainPost.MediaPhoto:
		cfg := tgbotapi.NewPhoto(p.groupID, file)
		cfg.Caption = caption
		cfg.ParseMode = tgbotapi.ModeHTML
		msg = cfg
	case domainPost.MediaVideo:
		cfg := tgbotapi.NewVideo(p.groupID, file)
		cfg.Caption = caption
		cfg.ParseMode = tgbotapi.ModeHTML
		msg = cfg
	case domainPost.MediaDocument:
		cfg := tgbotapi.NewDocument(p.groupID, file)
		cfg.Caption = caption
		cfg.ParseMode = tgbotapi.ModeHTML
		msg = cfg
	case domainPost.MediaAnimation:
		cfg := tgbotapi.NewAnimation(p.groupID, file)
		cfg.Caption = caption
		cfg.ParseMode = tgbotapi.ModeHTML
		msg = cfg
	case domainPost.MediaVoice:
		cfg := tgbotapi.NewVoice(p.groupID, file)
		cfg.Caption = caption
		cfg.ParseMode = tgbotapi.ModeHTML
		msg = cfg
	default:
		log.Warnf("[PUBLISHER] unknown media type %q, sending as text", ref.MediaType)
		return p.publishText(caption, log)
	}

	if _, err := p.bot.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", ref.MediaType, err)
	}
	return nil
}

func (p *Publisher) publishAlbum(content domainPost.Content, log *logrus.Entry) error {
	log.Infof("[PUBLISHER] publishing album of %d items", len(content.Album))

	if err := p.publishMedia(content.Album[0], content.Text, log); err != nil {
		return err
	}
	for _, ref := range content.Album[1:] {
		if err := p.publishMedia(ref, "", log); err != nil {
			// The caption item went out already; report the partial send
			// rather than re-sending it on retry.
			log.WithError(err).Error("[PUBLISHER] album item failed after caption item was sent")
			return err
		}
	}
	return nil
}
