package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"cntech-bot/app/sources"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed data into articles attributed to src. Entries without a
// link are dropped; a missing publish timestamp is kept as nil.
func (p *Parser) Run(data []byte, src sources.Source) ([]Article, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}

		article := Article{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Source:      src.Name,
			Category:    src.Category,
			ImageURL:    p.extractImageURL(item),
		}

		if item.PublishedParsed != nil {
			t := *item.PublishedParsed
			article.PublishedAt = &t
		}

		articles = append(articles, article)
	}

	return articles, nil
}

// extractImageURL tries known entry shapes in priority order: media content,
// media thumbnail, image-typed enclosure, feed-level image. Absence of all
// yields "" and the post degrades to text-only downstream.
func (p *Parser) extractImageURL(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		if contents, ok := media["content"]; ok {
			for _, content := range contents {
				if url := content.Attrs["url"]; url != "" {
					return url
				}
			}
		}
		if thumbnails, ok := media["thumbnail"]; ok {
			for _, thumbnail := range thumbnails {
				if url := thumbnail.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.Contains(enclosure.Type, "image") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	if item.Image != nil {
		return item.Image.URL
	}

	return ""
}
