package generator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"cntech-bot/app/feed"
	"cntech-bot/app/textutil"
)

type stubClient struct {
	response string
	err      error
	prompts  []string
}

func (s *stubClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

var testArticle = feed.Article{
	Title:       "Baidu launches platform",
	Link:        "https://x/1",
	Description: "The Chinese search giant introduced new developer tooling. The platform targets AI workloads. Several partners are already on board.",
	Source:      "36Kr",
	ImageURL:    "https://img/1.jpg",
}

func TestArticlePost_BackendSuccess(t *testing.T) {
	client := &stubClient{response: "Короткий сгенерированный текст поста."}
	gen := New(client, 700, 300)

	post := gen.ArticlePost(context.Background(), testArticle)

	if post.Text != "Короткий сгенерированный текст поста." {
		t.Errorf("Expected backend text, got '%s'", post.Text)
	}
	if post.ImageURL != "https://img/1.jpg" {
		t.Errorf("Expected image URL carried through, got '%s'", post.ImageURL)
	}
	// Caption equals text when the whole text fits the caption budget
	if post.Caption != post.Text {
		t.Errorf("Expected caption to equal short text, got '%s'", post.Caption)
	}
}

func TestArticlePost_BackendFailureUsesFallback(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("quota exceeded")}
	gen := New(client, 700, 300)

	post := gen.ArticlePost(context.Background(), testArticle)

	if post.Text == "" {
		t.Fatal("Fallback must produce non-empty text")
	}
	if n := len([]rune(post.Text)); n > 700 {
		t.Errorf("Fallback text length %d exceeds budget 700", n)
	}
	if !strings.Contains(post.Text, "Baidu launches platform") {
		t.Errorf("Fallback should include the title, got '%s'", post.Text)
	}
	if !strings.Contains(post.Text, "Источник: 36Kr.") {
		t.Errorf("Fallback should include the source label, got '%s'", post.Text)
	}
}

func TestArticlePost_TinyBudgetSlicesAtCharacterBoundary(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("backend down")}
	gen := New(client, 10, 300)

	post := gen.ArticlePost(context.Background(), testArticle)

	if post.Text == "" {
		t.Fatal("Fallback must produce non-empty text even under a tiny budget")
	}
	if n := len([]rune(post.Text)); n > 10 {
		t.Errorf("Fallback text length %d exceeds budget 10", n)
	}
}

func TestArticlePost_CaptionTruncatedWithEllipsis(t *testing.T) {
	long := strings.Repeat("Первое предложение дайджеста о технологиях. ", 20)
	client := &stubClient{response: strings.TrimSpace(long)}
	gen := New(client, 1500, 300)

	post := gen.ArticlePost(context.Background(), testArticle)

	if n := len([]rune(post.Caption)); n > 301 {
		t.Errorf("Caption length %d exceeds budget", n)
	}
	if !strings.HasSuffix(post.Caption, textutil.Ellipsis) {
		t.Errorf("Truncated caption should end with ellipsis, got '%s'", post.Caption)
	}
}

func TestDigest_Empty(t *testing.T) {
	gen := New(&stubClient{}, 700, 300)

	got := gen.Digest(context.Background(), nil)
	if got != "📰 Сегодня новых статей не найдено." {
		t.Errorf("Unexpected empty-digest text: '%s'", got)
	}
}

func TestDigest_BackendSuccessAppendsSources(t *testing.T) {
	client := &stubClient{response: "Сегодня в Китае запустили новую платформу."}
	gen := New(client, 700, 300)

	got := gen.Digest(context.Background(), []feed.Article{testArticle})

	if !strings.Contains(got, "Дайджест IT-новостей из Китая") {
		t.Errorf("Digest should carry the header, got '%s'", got)
	}
	if !strings.Contains(got, client.response) {
		t.Errorf("Digest should contain the generated body")
	}
	// The body has no links, so the source list is appended
	if !strings.Contains(got, "https://x/1") {
		t.Errorf("Digest should list source links, got '%s'", got)
	}
}

func TestDigest_BackendFailureUsesFallback(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("timeout")}
	gen := New(client, 700, 300)

	got := gen.Digest(context.Background(), []feed.Article{testArticle})

	if !strings.Contains(got, "Baidu launches platform") {
		t.Errorf("Fallback digest should list article titles, got '%s'", got)
	}
	if !strings.Contains(got, "#КитайТех") {
		t.Errorf("Fallback digest should carry hashtags, got '%s'", got)
	}
}

func TestVacancyPost_ManualFormat(t *testing.T) {
	gen := New(&stubClient{err: fmt.Errorf("should not matter")}, 700, 300)

	data := VacancyData{
		Position: "Senior Go Developer",
		Company:  "TechCorp",
		Salary:   "25k-35k RMB",
		Contact:  "@hr_techcorp",
	}

	got := gen.VacancyPost(context.Background(), data, false)

	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines for 4 present fields, got %d: %q", len(lines), got)
	}
	// Fixed field order: position, company, salary, contact
	if !strings.Contains(lines[0], "Позиция: Senior Go Developer") {
		t.Errorf("Expected position first, got '%s'", lines[0])
	}
	if !strings.Contains(lines[1], "Компания: TechCorp") {
		t.Errorf("Expected company second, got '%s'", lines[1])
	}
	if !strings.Contains(lines[3], "Контакт: @hr_techcorp") {
		t.Errorf("Expected contact last, got '%s'", lines[3])
	}
	// Absent fields are omitted entirely
	if strings.Contains(got, "Локация") {
		t.Errorf("Absent location should be omitted, got '%s'", got)
	}
}

func TestVacancyPost_PolishFailureFallsBackToManual(t *testing.T) {
	gen := New(&stubClient{err: fmt.Errorf("auth error")}, 700, 300)

	data := VacancyData{Position: "Developer", Description: "Build backend systems"}
	got := gen.VacancyPost(context.Background(), data, true)

	if !strings.Contains(got, "Позиция: Developer") {
		t.Errorf("Expected manual format fallback, got '%s'", got)
	}
}

func TestAdPost_ManualFormat(t *testing.T) {
	gen := New(&stubClient{}, 700, 300)

	data := AdData{Title: "Big launch", Link: "https://promo.example"}
	got := gen.AdPost(context.Background(), data, false)

	if !strings.Contains(got, "Рекламный пост") {
		t.Errorf("Expected ad header, got '%s'", got)
	}
	if !strings.Contains(got, "Заголовок**: Big launch") {
		t.Errorf("Expected title line, got '%s'", got)
	}
	if strings.Contains(got, "Бренд") {
		t.Errorf("Absent brand should be omitted, got '%s'", got)
	}
}

func TestNormalizeVacancy_FailureAppendsDetectedURL(t *testing.T) {
	gen := New(&stubClient{err: fmt.Errorf("malformed response")}, 700, 300)

	raw := "Ищем Go-разработчика, apply at https://jobs.x/42 до конца месяца"
	got := gen.NormalizeVacancy(context.Background(), raw)

	if !strings.HasPrefix(got, raw) {
		t.Errorf("Fallback should start with the raw text, got '%s'", got)
	}
	if !strings.HasSuffix(got, "🔗 Ссылка: https://jobs.x/42") {
		t.Errorf("Fallback should append the detected URL line, got '%s'", got)
	}
}

func TestNormalizeVacancy_FailureNoURLNoLine(t *testing.T) {
	gen := New(&stubClient{err: fmt.Errorf("malformed response")}, 700, 300)

	raw := "Ищем Go-разработчика в Шанхай"
	got := gen.NormalizeVacancy(context.Background(), raw)

	if got != raw {
		t.Errorf("Fallback without URL should return raw text unchanged, got '%s'", got)
	}
}

func TestPolishVacancyText_FailureReturnsInput(t *testing.T) {
	gen := New(&stubClient{err: fmt.Errorf("timeout")}, 700, 300)

	if got := gen.PolishVacancyText(context.Background(), "raw vacancy text"); got != "raw vacancy text" {
		t.Errorf("Expected raw text back, got '%s'", got)
	}
}
