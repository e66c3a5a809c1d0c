package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cntech-bot/app/generator"
	"cntech-bot/app/publisher"
)

type stubAPI struct {
	sent []string
}

func (s *stubAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (s *stubAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return nil
}

func (s *stubAPI) StopReceivingUpdates() {}

func (s *stubAPI) last() string {
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

type stubTriggerer struct {
	runs    []int
	digests []int
}

func (s *stubTriggerer) Run(ctx context.Context, maxCount int) {
	s.runs = append(s.runs, maxCount)
}

func (s *stubTriggerer) RunDigest(ctx context.Context, maxCount int) {
	s.digests = append(s.digests, maxCount)
}

type stubFormatter struct {
	lastVacancy generator.VacancyData
	lastAd      generator.AdData
	lastRaw     string
}

func (s *stubFormatter) VacancyPost(ctx context.Context, data generator.VacancyData, polish bool) string {
	s.lastVacancy = data
	return fmt.Sprintf("vacancy(polish=%v):%s", polish, data.Position)
}

func (s *stubFormatter) AdPost(ctx context.Context, data generator.AdData, polish bool) string {
	s.lastAd = data
	return fmt.Sprintf("ad(polish=%v):%s", polish, data.Title)
}

func (s *stubFormatter) NormalizeVacancy(ctx context.Context, raw string) string {
	s.lastRaw = raw
	return "normalized: " + raw
}

type stubChannel struct {
	published []string
	fail      bool
}

func (s *stubChannel) PublishMessage(text string) publisher.Outcome {
	s.published = append(s.published, text)
	return publisher.Outcome{Delivered: !s.fail}
}

func commandMsg(text string) *tgbotapi.Message {
	cmd := strings.Fields(text)[0]
	return &tgbotapi.Message{
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
		Chat:     &tgbotapi.Chat{ID: 10},
		From:     &tgbotapi.User{ID: 42},
	}
}

func textMsg(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 10},
		From: &tgbotapi.User{ID: 42},
	}
}

func newTestBot(opts Options) (*Bot, *stubAPI, *stubTriggerer, *stubFormatter, *stubChannel) {
	if opts.AdminIDs == nil {
		opts.AdminIDs = []int64{42}
	}
	if opts.SeenLen == nil {
		opts.SeenLen = func() int { return 0 }
	}
	api := &stubAPI{}
	trigger := &stubTriggerer{}
	format := &stubFormatter{}
	channel := &stubChannel{}
	return New(api, trigger, format, channel, opts), api, trigger, format, channel
}

func TestNonAdminIgnored(t *testing.T) {
	b, api, trigger, _, _ := newTestBot(Options{})

	msg := commandMsg("/post_now")
	msg.From.ID = 99
	b.handleMessage(context.Background(), msg)

	if len(api.sent) != 0 {
		t.Errorf("Non-admin should get no replies, got %v", api.sent)
	}
	if len(trigger.runs) != 0 {
		t.Error("Non-admin must not trigger the pipeline")
	}
}

func TestPostNowTriggersSingleArticleRun(t *testing.T) {
	b, _, trigger, _, _ := newTestBot(Options{})

	b.handleMessage(context.Background(), commandMsg("/post_now"))

	if len(trigger.runs) != 1 || trigger.runs[0] != 1 {
		t.Errorf("Expected one run with max count 1, got %v", trigger.runs)
	}
}

func TestDigestCommand(t *testing.T) {
	b, _, trigger, _, _ := newTestBot(Options{DigestCount: 3})

	b.handleMessage(context.Background(), commandMsg("/digest"))

	if len(trigger.digests) != 1 || trigger.digests[0] != 3 {
		t.Errorf("Expected one digest run with max count 3, got %v", trigger.digests)
	}
}

func TestStatusCommand(t *testing.T) {
	b, api, _, _, _ := newTestBot(Options{SourceCount: 7, SeenLen: func() int { return 12 }, Version: "1.0.0"})

	b.handleMessage(context.Background(), commandMsg("/status"))

	got := api.last()
	if !strings.Contains(got, "Источников: 7") || !strings.Contains(got, "Опубликовано ссылок: 12") {
		t.Errorf("Unexpected status text: '%s'", got)
	}
}

func TestVacancyFormFullFlow(t *testing.T) {
	b, api, _, format, channel := newTestBot(Options{})
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_vacancy"))
	if !strings.Contains(api.last(), "Шаг 1/9") {
		t.Fatalf("Expected first step prompt, got '%s'", api.last())
	}

	answers := []string{"Go Developer", "TechCorp", "Шанхай", "30k RMB", "3+ года", "Бэкенд на Go", "Go, PostgreSQL", "Релокация", "@hr"}
	for _, answer := range answers {
		b.handleMessage(ctx, textMsg(answer))
	}

	if !strings.Contains(api.last(), "Предпросмотр вакансии") {
		t.Fatalf("Expected preview after last step, got '%s'", api.last())
	}
	if format.lastVacancy.Position != "Go Developer" || format.lastVacancy.Contact != "@hr" {
		t.Errorf("Form data not captured: %+v", format.lastVacancy)
	}

	b.handleMessage(ctx, textMsg("да"))

	if len(channel.published) != 1 || channel.published[0] != "vacancy(polish=false):Go Developer" {
		t.Errorf("Unexpected published text: %v", channel.published)
	}
	if !strings.Contains(api.last(), "✅") {
		t.Errorf("Expected success reply, got '%s'", api.last())
	}
}

func TestVacancyFormSkipLeavesFieldEmpty(t *testing.T) {
	b, _, _, format, _ := newTestBot(Options{})
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_vacancy"))
	b.handleMessage(ctx, commandMsg("/skip"))
	for i := 0; i < 8; i++ {
		b.handleMessage(ctx, textMsg(fmt.Sprintf("field %d", i)))
	}

	if format.lastVacancy.Position != "" {
		t.Errorf("Skipped position should be empty, got '%s'", format.lastVacancy.Position)
	}
	if format.lastVacancy.Company != "field 0" {
		t.Errorf("Expected company filled after skip, got '%s'", format.lastVacancy.Company)
	}
}

func TestVacancyConfirmWithAIForcesPolish(t *testing.T) {
	b, _, _, _, channel := newTestBot(Options{})
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_vacancy"))
	for i := 0; i < 9; i++ {
		b.handleMessage(ctx, textMsg("x"))
	}
	b.handleMessage(ctx, textMsg("ai"))

	if len(channel.published) != 1 || !strings.Contains(channel.published[0], "polish=true") {
		t.Errorf("Expected polished publish, got %v", channel.published)
	}
}

func TestCancelAbortsForm(t *testing.T) {
	b, _, _, _, channel := newTestBot(Options{})
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_vacancy"))
	b.handleMessage(ctx, textMsg("Go Developer"))
	b.handleMessage(ctx, commandMsg("/cancel"))
	b.handleMessage(ctx, textMsg("stray text"))

	if len(channel.published) != 0 {
		t.Errorf("Cancelled form must not publish, got %v", channel.published)
	}
}

func TestFreeformVacancyFlow(t *testing.T) {
	b, api, _, format, channel := newTestBot(Options{})
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_vacancy_free"))
	b.handleMessage(ctx, textMsg("Ищем гофера, пишите @hr, https://jobs.x/42"))

	if format.lastRaw != "Ищем гофера, пишите @hr, https://jobs.x/42" {
		t.Errorf("Raw text not passed to normalization: '%s'", format.lastRaw)
	}
	if !strings.Contains(api.last(), "normalized: ") {
		t.Errorf("Expected normalized preview, got '%s'", api.last())
	}

	b.handleMessage(ctx, textMsg("да"))
	if len(channel.published) != 1 || !strings.HasPrefix(channel.published[0], "normalized: ") {
		t.Errorf("Expected normalized text published, got %v", channel.published)
	}
}

func TestPublishFailureSurfacesToSubmitter(t *testing.T) {
	b, api, _, _, channel := newTestBot(Options{})
	channel.fail = true
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_vacancy_free"))
	b.handleMessage(ctx, textMsg("Текст вакансии"))
	b.handleMessage(ctx, textMsg("да"))

	if !strings.Contains(api.last(), "❌") {
		t.Errorf("Expected failure reply, got '%s'", api.last())
	}
}

func TestAdFormFlow(t *testing.T) {
	b, _, _, format, channel := newTestBot(Options{PolishAds: true})
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_ad"))
	answers := []string{"Скидка на курс", "GoSchool", "Интенсив по Go", "-30%", "https://promo.x", "@sales"}
	for _, answer := range answers {
		b.handleMessage(ctx, textMsg(answer))
	}
	b.handleMessage(ctx, textMsg("да"))

	if format.lastAd.Title != "Скидка на курс" || format.lastAd.Contact != "@sales" {
		t.Errorf("Ad data not captured: %+v", format.lastAd)
	}
	// PolishAds is enabled, so a plain "да" publishes the polished version
	if len(channel.published) != 1 || !strings.Contains(channel.published[0], "polish=true") {
		t.Errorf("Expected polished ad publish, got %v", channel.published)
	}
}

func TestUnknownConfirmAnswerReprompts(t *testing.T) {
	b, api, _, _, channel := newTestBot(Options{})
	ctx := context.Background()

	b.handleMessage(ctx, commandMsg("/post_vacancy_free"))
	b.handleMessage(ctx, textMsg("Текст"))
	b.handleMessage(ctx, textMsg("может быть"))

	if len(channel.published) != 0 {
		t.Error("Ambiguous answer must not publish")
	}
	if !strings.Contains(api.last(), "да, ai или отмена") {
		t.Errorf("Expected reprompt, got '%s'", api.last())
	}
}
