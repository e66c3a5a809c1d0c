// Package publisher delivers generated posts to the Telegram channel with a
// degradation cascade: photo with caption, then plain text, then a one-shot
// markup retry with the text converted to HTML.
package publisher

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cntech-bot/app/generator"
	"cntech-bot/app/textutil"
)

const (
	// Telegram hard limits are 1024 for captions and 4096 for messages;
	// the message budget keeps a margin under the hard limit.
	captionLimit = 1024
	messageLimit = 3900
)

// sender is the slice of tgbotapi.BotAPI the publisher needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ sender = (*tgbotapi.BotAPI)(nil)

type Fallback string

const (
	FallbackNone        Fallback = "none"
	FallbackMarkupRetry Fallback = "markup_retry"
	FallbackMediaToText Fallback = "media_to_text"
)

// Outcome reports how a delivery went; consumed for logging and the
// seen-set decision only.
type Outcome struct {
	Delivered bool
	Fallback  Fallback
}

type Publisher struct {
	api        sender
	channelID  string
	adminIDs   []int64
	idealLimit int
}

func New(api sender, channelID string, adminIDs []int64, idealLimit int) *Publisher {
	return &Publisher{
		api:        api,
		channelID:  channelID,
		adminIDs:   adminIDs,
		idealLimit: idealLimit,
	}
}

// PublishArticle delivers a single article post. With an image it tries the
// photo route first and degrades to plain text on any photo error. Article
// posts are never chunked.
func (p *Publisher) PublishArticle(post generator.Post) Outcome {
	if post.ImageURL != "" {
		fallback, err := p.sendPhoto(post.ImageURL, p.photoCaption(post))
		if err == nil {
			return Outcome{Delivered: true, Fallback: fallback}
		}
		slog.Warn("Photo delivery failed, falling back to text", "image_url", post.ImageURL, "error", err)

		if _, err := p.sendText(textutil.Truncate(post.Text, messageLimit)); err != nil {
			slog.Error("Text fallback delivery failed", "error", err)
			return Outcome{}
		}
		return Outcome{Delivered: true, Fallback: FallbackMediaToText}
	}

	fallback, err := p.sendText(textutil.Truncate(post.Text, messageLimit))
	if err != nil {
		slog.Error("Article delivery failed", "error", err)
		return Outcome{}
	}
	return Outcome{Delivered: true, Fallback: fallback}
}

// PublishMessage delivers free-form text (digest, vacancy, ad), chunked at
// sentence boundaries when it exceeds the message budget. A failed chunk is
// logged and delivery continues with the next one.
func (p *Publisher) PublishMessage(text string) Outcome {
	chunks := textutil.Chunk(text, messageLimit)
	if len(chunks) == 0 {
		return Outcome{}
	}

	outcome := Outcome{Fallback: FallbackNone}
	for i, chunk := range chunks {
		fallback, err := p.sendText(chunk)
		if err != nil {
			slog.Error("Chunk delivery failed", "chunk", i+1, "chunks", len(chunks), "error", err)
			continue
		}
		outcome.Delivered = true
		if fallback == FallbackMarkupRetry {
			outcome.Fallback = FallbackMarkupRetry
		}
	}
	return outcome
}

// NotifyOperator sends a plain-text message to every admin chat. Failures
// are logged and never propagate; operator notices are best effort.
func (p *Publisher) NotifyOperator(text string) {
	for _, adminID := range p.adminIDs {
		msg := tgbotapi.NewMessage(adminID, text)
		if _, err := p.api.Send(msg); err != nil {
			slog.Error("Operator notification failed", "admin_id", adminID, "error", err)
		}
	}
}

// photoCaption carries the full generated text, bounded by the tighter of
// the configured post budget and the Telegram caption limit. The derived
// short caption is only a stand-in for posts with no text.
func (p *Publisher) photoCaption(post generator.Post) string {
	limit := captionLimit
	if p.idealLimit > 0 && p.idealLimit < limit {
		limit = p.idealLimit
	}

	text := post.Text
	if text == "" {
		text = post.Caption
	}
	return textutil.Truncate(text, limit)
}

func (p *Publisher) sendText(text string) (Fallback, error) {
	msg := tgbotapi.MessageConfig{
		BaseChat:              p.channelChat(),
		Text:                  text,
		ParseMode:             tgbotapi.ModeMarkdown,
		DisableWebPagePreview: true,
	}

	_, err := p.api.Send(msg)
	if err == nil {
		return FallbackNone, nil
	}
	if !isMarkupError(err) {
		return FallbackNone, fmt.Errorf("send message: %w", err)
	}

	slog.Warn("Markup rejected, retrying as HTML", "error", err)
	msg.Text = markdownToHTML(text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := p.api.Send(msg); err != nil {
		return FallbackNone, fmt.Errorf("send message html retry: %w", err)
	}
	return FallbackMarkupRetry, nil
}

func (p *Publisher) sendPhoto(imageURL, caption string) (Fallback, error) {
	photo := tgbotapi.PhotoConfig{
		BaseFile: tgbotapi.BaseFile{
			BaseChat: p.channelChat(),
			File:     tgbotapi.FileURL(imageURL),
		},
		Caption:   caption,
		ParseMode: tgbotapi.ModeMarkdown,
	}

	_, err := p.api.Send(photo)
	if err == nil {
		return FallbackNone, nil
	}
	if !isMarkupError(err) {
		return FallbackNone, fmt.Errorf("send photo: %w", err)
	}

	slog.Warn("Caption markup rejected, retrying as HTML", "error", err)
	photo.Caption = markdownToHTML(caption)
	photo.ParseMode = tgbotapi.ModeHTML
	if _, err := p.api.Send(photo); err != nil {
		return FallbackNone, fmt.Errorf("send photo html retry: %w", err)
	}
	return FallbackMarkupRetry, nil
}

// channelChat resolves the configured channel as either a numeric chat ID
// or an @username.
func (p *Publisher) channelChat() tgbotapi.BaseChat {
	if id, err := strconv.ParseInt(p.channelID, 10, 64); err == nil {
		return tgbotapi.BaseChat{ChatID: id}
	}
	return tgbotapi.BaseChat{ChannelUsername: p.channelID}
}

// isMarkupError reports whether the API rejected the message for its parse
// entities rather than for transport or policy reasons.
func isMarkupError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "can't parse entities")
}
