// Package generator turns articles and manual submissions into channel-ready
// text. Every public method resolves backend failures with a deterministic
// fallback and returns text unconditionally; errors never cross this
// boundary.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cntech-bot/app/feed"
	"cntech-bot/app/llm"
)

type Generator struct {
	client        llm.Client
	idealLimit    int
	captionLength int
}

func New(client llm.Client, idealLimit, captionLength int) *Generator {
	return &Generator{
		client:        client,
		idealLimit:    idealLimit,
		captionLength: captionLength,
	}
}

// ArticlePost produces the bounded full text and the derived short caption
// for one article. The caption is cut from the final text, so it does not
// depend on whether the backend or the fallback produced it.
func (g *Generator) ArticlePost(ctx context.Context, article feed.Article) Post {
	text, err := g.client.Generate(ctx, g.articlePrompt(article), tokenBudget(g.idealLimit))
	if err != nil || text == "" {
		if err != nil {
			slog.Warn("Article generation failed, using fallback", "link", article.Link, "error", err)
		}
		text = fallbackArticleText(article, g.idealLimit)
	}
	text = strings.TrimSpace(text)

	return Post{
		Text:     text,
		Caption:  deriveCaption(text, g.captionLength),
		ImageURL: article.ImageURL,
	}
}

// Digest produces the daily multi-article digest with header and date line.
func (g *Generator) Digest(ctx context.Context, articles []feed.Article) string {
	if len(articles) == 0 {
		return "📰 Сегодня новых статей не найдено."
	}

	body, err := g.client.Generate(ctx, g.digestPrompt(articles), 0)
	if err != nil || body == "" {
		if err != nil {
			slog.Warn("Digest generation failed, using fallback", "articles", len(articles), "error", err)
		}
		return fallbackDigest(articles)
	}

	var b strings.Builder
	b.WriteString("🇨🇳 **Дайджест IT-новостей из Китая**\n")
	b.WriteString(fmt.Sprintf("📅 %s\n\n", time.Now().Format("02.01.2006")))
	b.WriteString(body)

	if !g.digestMentionsLinks(body, articles) {
		b.WriteString("\n\n📖 **Источники:**\n")
		count := len(articles)
		if count > 3 {
			count = 3
		}
		for i := 0; i < count; i++ {
			b.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, articles[i].Source, articles[i].Link))
		}
	}

	return b.String()
}

// VacancyPost formats a manual vacancy submission. With polish enabled and a
// description present, the backend rewrites it; any failure (or polish
// disabled) falls back to the fixed labeled-line format.
func (g *Generator) VacancyPost(ctx context.Context, data VacancyData, polish bool) string {
	if polish && data.Description != "" {
		text, err := g.client.Generate(ctx, fmt.Sprintf(vacancyPromptTemplate, data.Description), 0)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			slog.Warn("Vacancy polish failed, using manual format", "error", err)
		}
	}
	return formatVacancy(data)
}

// AdPost formats a manual ad submission, optionally backend-polished.
func (g *Generator) AdPost(ctx context.Context, data AdData, polish bool) string {
	if polish {
		prompt := fmt.Sprintf(adPromptTemplate, data.Title, data.Brand, data.Description, data.Offer, data.Link, data.Contact)
		text, err := g.client.Generate(ctx, prompt, 0)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			slog.Warn("Ad polish failed, using manual format", "error", err)
		}
	}
	return formatAd(data)
}

// NormalizeVacancy structures a free-form vacancy submission into the
// labeled format. On failure the raw text is returned with the first
// detected URL appended as a link line.
func (g *Generator) NormalizeVacancy(ctx context.Context, raw string) string {
	text, err := g.client.Generate(ctx, fmt.Sprintf(normalizeVacancyPromptTemplate, raw), 0)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		slog.Warn("Vacancy normalization failed, returning raw text", "error", err)
	}
	return fallbackNormalize(raw)
}

// PolishVacancyText polishes arbitrary vacancy text; on failure the input
// comes back unchanged.
func (g *Generator) PolishVacancyText(ctx context.Context, raw string) string {
	text, err := g.client.Generate(ctx, fmt.Sprintf(vacancyPromptTemplate, raw), 0)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		slog.Warn("Vacancy polish failed, returning raw text", "error", err)
	}
	return strings.TrimSpace(raw)
}

func (g *Generator) articlePrompt(article feed.Article) string {
	material := article.Description
	if article.Content != "" {
		material = article.Content
	}
	material = hardSlice(material, 800)

	return fmt.Sprintf(articlePromptTemplate, article.Title, article.Source, material, g.idealLimit)
}

func (g *Generator) digestPrompt(articles []feed.Article) string {
	var b strings.Builder
	count := len(articles)
	if count > 5 {
		count = 5
	}
	for i := 0; i < count; i++ {
		article := articles[i]
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, article.Title))
		b.WriteString(fmt.Sprintf("   Источник: %s\n", article.Source))
		if article.Description != "" {
			b.WriteString(fmt.Sprintf("   Описание: %s\n", hardSlice(article.Description, 200)))
		}
		b.WriteString(fmt.Sprintf("   Ссылка: %s\n\n", article.Link))
	}

	return fmt.Sprintf(digestPromptTemplate, b.String())
}

func (g *Generator) digestMentionsLinks(body string, articles []feed.Article) bool {
	for _, article := range articles {
		if strings.Contains(body, article.Link) {
			return true
		}
	}
	return false
}

// tokenBudget estimates a max-token limit from a character budget. Roughly
// 3.5 characters per token, with margin, clamped to a sane range.
func tokenBudget(chars int) int {
	if chars <= 0 {
		return 0
	}
	est := int(float64(chars)/3.5) + 40
	if est < 200 {
		return 200
	}
	if est > 1200 {
		return 1200
	}
	return est
}
