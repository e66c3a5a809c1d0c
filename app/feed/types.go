package feed

import (
	"time"
)

// Article is one syndicated feed entry normalized into the pipeline's working
// shape. Identity is Link; everything else is descriptive. Read-only after
// collection.
type Article struct {
	Title       string
	Link        string
	Description string
	Content     string // extracted page text, optional
	PublishedAt *time.Time
	Source      string
	Category    string
	ImageURL    string
}

// SeenChecker answers whether an article link was already delivered.
type SeenChecker interface {
	Contains(link string) bool
}
