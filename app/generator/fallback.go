package generator

import (
	"fmt"
	"strings"
	"time"

	"cntech-bot/app/feed"
	"cntech-bot/app/textutil"
)

// Deterministic, network-free substitutes used whenever a backend call
// fails. Each produces usable output from the data already in hand.

// fallbackArticleText builds a sentence list from title, description and
// source label, then accumulates sentences while the running length stays
// within limit. When even the first sentence does not fit, the description
// (or title) is hard-sliced at the character boundary.
func fallbackArticleText(article feed.Article, limit int) string {
	var parts []string

	title := strings.TrimSpace(article.Title)
	description := strings.TrimSpace(article.Description)
	source := strings.TrimSpace(article.Source)

	if title != "" {
		parts = append(parts, fmt.Sprintf("Новость: %s.", title))
	}

	sentences := textutil.Sentences(description)
	if len(sentences) > 10 {
		sentences = sentences[:10]
	}
	parts = append(parts, sentences...)

	if source != "" {
		parts = append(parts, fmt.Sprintf("Источник: %s.", source))
	}

	out := textutil.AccumulateSentences(parts, limit)
	if out != "" {
		return out
	}

	if description != "" {
		return hardSlice(description, limit)
	}
	return hardSlice(title, limit)
}

// deriveCaption cuts a short caption from the full text: leading sentences
// while they fit, a word-boundary slice when not even one fits, and an
// ellipsis whenever the caption is shorter than its source.
func deriveCaption(full string, limit int) string {
	caption := textutil.AccumulateSentences(textutil.Sentences(full), limit)
	if caption == "" {
		caption = textutil.Truncate(full, limit)
	}

	if len([]rune(caption)) < len([]rune(full)) && !strings.HasSuffix(caption, textutil.Ellipsis) {
		caption = strings.TrimRight(caption, " ") + textutil.Ellipsis
	}

	return caption
}

func fallbackDigest(articles []feed.Article) string {
	var b strings.Builder
	b.WriteString("🇨🇳 **IT-новости из Китая**\n")
	b.WriteString(fmt.Sprintf("📅 %s\n\n", time.Now().Format("02.01.2006")))

	count := len(articles)
	if count > 3 {
		count = 3
	}
	for i := 0; i < count; i++ {
		article := articles[i]
		b.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, article.Title))
		b.WriteString(fmt.Sprintf("   📰 %s\n", article.Source))
		if article.Description != "" {
			b.WriteString(fmt.Sprintf("   📝 %s\n", textutil.Truncate(article.Description, 150)))
		}
		b.WriteString(fmt.Sprintf("   🔗 [Читать полностью](%s)\n\n", article.Link))
	}

	b.WriteString("#КитайТех #IT #Технологии #Новости")
	return b.String()
}

// formatVacancy emits one labeled line per present field, in fixed order.
// Used both for the explicit "skip AI" choice and as the failure fallback.
func formatVacancy(data VacancyData) string {
	var parts []string

	appendField(&parts, "🧑‍💻 Позиция", data.Position)
	appendField(&parts, "🏢 Компания", data.Company)
	appendField(&parts, "📍 Локация", data.Location)
	appendField(&parts, "💰 Зарплата", data.Salary)
	appendField(&parts, "🧪 Опыт", data.Experience)
	appendField(&parts, "📝 Описание", data.Description)
	appendField(&parts, "✅ Требования", data.Requirements)
	appendField(&parts, "🎁 Условия", data.Benefits)
	appendField(&parts, "📬 Контакт", data.Contact)

	return strings.Join(parts, "\n")
}

func formatAd(data AdData) string {
	parts := []string{"📣 **Рекламный пост**\n"}

	appendField(&parts, "🔖 **Заголовок**", data.Title)
	appendField(&parts, "🏷️ **Бренд**", data.Brand)
	appendField(&parts, "📝 **Описание**", data.Description)
	appendField(&parts, "🎁 **Оффер**", data.Offer)
	appendField(&parts, "🔗 **Ссылка**", data.Link)
	appendField(&parts, "📞 **Контакт**", data.Contact)

	return strings.Join(parts, "\n")
}

// fallbackNormalize returns the raw submission with the first detected URL
// appended as a labeled link line; no URL, no line.
func fallbackNormalize(raw string) string {
	out := strings.TrimSpace(raw)
	if url := textutil.FirstURL(raw); url != "" {
		out += "\n🔗 Ссылка: " + url
	}
	return out
}

func appendField(parts *[]string, label, value string) {
	if value != "" {
		*parts = append(*parts, fmt.Sprintf("%s: %s", label, value))
	}
}

// hardSlice cuts at the character boundary with no word-boundary courtesy;
// the caller has already established that nothing sentence-shaped fits.
func hardSlice(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
