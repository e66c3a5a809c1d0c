package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"cntech-bot/app/sources"
)

// Collector fetches all configured sources concurrently and produces the
// ranked candidate list for one pipeline run. It never mutates the seen set;
// marking happens only after a successful delivery.
type Collector struct {
	sources         []sources.Source
	excludeKeywords []string
	httpClient      *http.Client
	parser          *Parser
	userAgent       string
	fetchTimeout    time.Duration
	recencyWindow   time.Duration
}

func NewCollector(list *sources.List, httpClient *http.Client, parser *Parser,
	userAgent string, fetchTimeout, recencyWindow time.Duration) *Collector {
	return &Collector{
		sources:         list.Sources,
		excludeKeywords: list.ExcludeKeywords,
		httpClient:      httpClient,
		parser:          parser,
		userAgent:       userAgent,
		fetchTimeout:    fetchTimeout,
		recencyWindow:   recencyWindow,
	}
}

// Collect fans out over all sources, filters each source's entries against
// the seen set and the recency window, then merges, ranks by publish time
// descending (unknown timestamps last) and truncates to maxCount. A failing
// source yields zero articles for that source only.
func (c *Collector) Collect(ctx context.Context, seen SeenChecker, maxCount int) []Article {
	results := make([][]Article, len(c.sources))

	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()

			articles, err := c.fetchSource(ctx, src, seen)
			if err != nil {
				slog.Error("Source fetch failed", "source", src.Name, "error", err)
				return
			}

			results[i] = articles
			if len(articles) > 0 {
				slog.Info("Source collected", "source", src.Name, "new", len(articles))
			}
		}(i, src)
	}
	wg.Wait()

	var all []Article
	for _, articles := range results {
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].PublishedAt, all[j].PublishedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	if len(all) > maxCount {
		all = all[:maxCount]
	}

	slog.Info("Collection completed", "sources", len(c.sources), "candidates", len(all))
	return all
}

func (c *Collector) fetchSource(ctx context.Context, src sources.Source, seen SeenChecker) ([]Article, error) {
	data, err := c.fetchFeed(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	parsed, err := c.parser.Run(data, src)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-c.recencyWindow)

	articles := make([]Article, 0, len(parsed))
	for _, article := range parsed {
		if seen.Contains(article.Link) {
			continue
		}
		if article.PublishedAt != nil && article.PublishedAt.Before(cutoff) {
			continue
		}
		if c.isExcluded(article.Title) {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (c *Collector) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (c *Collector) isExcluded(title string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range c.excludeKeywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
