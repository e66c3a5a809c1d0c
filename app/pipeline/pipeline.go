// Package pipeline runs the collect, generate, deliver cycle. Exactly one
// run is active at a time; triggers arriving while a run is in progress are
// skipped, not queued.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cntech-bot/app/feed"
	"cntech-bot/app/generator"
	"cntech-bot/app/publisher"
)

type collector interface {
	Collect(ctx context.Context, seen feed.SeenChecker, maxCount int) []feed.Article
}

type enricher interface {
	Enrich(ctx context.Context, article feed.Article) feed.Article
}

type textGenerator interface {
	ArticlePost(ctx context.Context, article feed.Article) generator.Post
	Digest(ctx context.Context, articles []feed.Article) string
}

type deliverer interface {
	PublishArticle(post generator.Post) publisher.Outcome
	PublishMessage(text string) publisher.Outcome
	NotifyOperator(text string)
}

type seenStore interface {
	feed.SeenChecker
	Add(link string) error
}

type Pipeline struct {
	collector collector
	enricher  enricher
	generator textGenerator
	publisher deliverer
	seen      seenStore
	stats     *Stats

	runMu sync.Mutex
}

// New assembles a pipeline. enricher may be nil when content extraction is
// disabled.
func New(c collector, e enricher, g textGenerator, d deliverer, seen seenStore, stats *Stats) *Pipeline {
	return &Pipeline{
		collector: c,
		enricher:  e,
		generator: g,
		publisher: d,
		seen:      seen,
		stats:     stats,
	}
}

// Run publishes up to maxCount articles as individual posts, in rank order.
// An article's link enters the seen set only after its delivery succeeded,
// and the set is flushed per article, so a crash never forgets a confirmed
// delivery.
func (p *Pipeline) Run(ctx context.Context, maxCount int) {
	if !p.runMu.TryLock() {
		slog.Info("Pipeline run skipped, previous run still in progress")
		return
	}
	defer p.runMu.Unlock()
	defer p.recoverRun()

	p.stats.runStarted()
	start := time.Now()
	slog.Info("Pipeline run started", "max_count", maxCount)

	articles := p.collector.Collect(ctx, p.seen, maxCount)
	if len(articles) == 0 {
		slog.Info("No new articles found")
		p.stats.runCompleted(0)
		return
	}

	published := 0
	for _, article := range articles {
		if p.publishOne(ctx, article) {
			published++
		}
	}

	p.stats.runCompleted(published)
	slog.Info("Pipeline run completed", "published", published, "candidates", len(articles), "duration", time.Since(start))
}

// RunDigest publishes one digest message covering up to maxCount articles.
// All covered articles become seen together once the digest is delivered.
func (p *Pipeline) RunDigest(ctx context.Context, maxCount int) {
	if !p.runMu.TryLock() {
		slog.Info("Digest run skipped, previous run still in progress")
		return
	}
	defer p.runMu.Unlock()
	defer p.recoverRun()

	p.stats.runStarted()
	slog.Info("Digest run started", "max_count", maxCount)

	articles := p.collector.Collect(ctx, p.seen, maxCount)
	if len(articles) == 0 {
		slog.Info("No new articles for digest")
		p.stats.runCompleted(0)
		return
	}

	text := p.generator.Digest(ctx, articles)
	outcome := p.publisher.PublishMessage(text)
	if !outcome.Delivered {
		slog.Error("Digest delivery failed", "articles", len(articles))
		p.stats.runCompleted(0)
		return
	}

	for _, article := range articles {
		p.markSeen(article.Link)
	}
	p.stats.runCompleted(len(articles))
	slog.Info("Digest run completed", "articles", len(articles))
}

func (p *Pipeline) publishOne(ctx context.Context, article feed.Article) bool {
	if p.enricher != nil {
		article = p.enricher.Enrich(ctx, article)
	}

	post := p.generator.ArticlePost(ctx, article)
	outcome := p.publisher.PublishArticle(post)
	if !outcome.Delivered {
		slog.Error("Article delivery failed, kept as future candidate", "link", article.Link)
		return false
	}
	if outcome.Fallback != publisher.FallbackNone {
		slog.Warn("Article delivered via fallback", "link", article.Link, "fallback", outcome.Fallback)
	}

	p.markSeen(article.Link)
	return true
}

// markSeen records a confirmed delivery. A flush failure is logged and the
// run continues; the in-memory set still gates redelivery for this process.
func (p *Pipeline) markSeen(link string) {
	if err := p.seen.Add(link); err != nil {
		slog.Error("Seen set flush failed", "link", link, "error", err)
	}
}

// recoverRun contains panics at the run boundary so a broken run never takes
// down the scheduler. The operator gets a notice.
func (p *Pipeline) recoverRun() {
	if r := recover(); r != nil {
		slog.Error("Pipeline run panicked", "panic", r)
		p.publisher.NotifyOperator(fmt.Sprintf("⚠️ Сбой при публикации новостей: %v", r))
	}
}
